//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gamestore-web/apiserver/config"
	"github.com/gamestore-web/apiserver/internal/db"
	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/server"
	_ "github.com/lib/pq"
)

const (
	serverPort = 18080
)

var baseURL = fmt.Sprintf("http://localhost:%d", serverPort)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate repo root: %v\n", err)
		os.Exit(1)
	}

	setTestEnv(root)

	if err := dockerCompose(ctx, root, "up", "-d"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start docker compose: %v\n", err)
		os.Exit(1)
	}

	if err := waitForPostgres(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "postgres not ready: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	if err := runMigrations(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	srvCtx, stopServer := context.WithCancel(context.Background())
	done, err := startServer(srvCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		stopServer()
		<-done
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	code := m.Run()

	stopServer()
	<-done
	_ = dockerCompose(context.Background(), root, "down")
	os.Exit(code)
}

func TestStorefrontLifecycle(t *testing.T) {
	suffix := time.Now().UnixNano()
	adminEmail := fmt.Sprintf("admin_%d@example.com", suffix)
	buyerEmail := fmt.Sprintf("buyer_%d@example.com", suffix)
	genreName := fmt.Sprintf("RPG-%d", suffix)

	admin := registerUser(t, adminEmail)
	registerUser(t, buyerEmail)
	if err := promoteUserToAdmin(admin.ID); err != nil {
		t.Fatalf("promote user: %v", err)
	}

	adminToken := login(t, adminEmail)
	buyerToken := login(t, buyerEmail)

	var genre idName
	expectJSON(t, doJSON(t, http.MethodPost, "/gamegenre/", adminToken, map[string]string{"name": genreName}), http.StatusCreated, &genre)

	var game gameResponse
	expectJSON(t, doJSON(t, http.MethodPost, "/game/", adminToken, map[string]any{
		"name":           "Chrono Quest",
		"description":    "time travel",
		"price":          29.5,
		"onSale":         true,
		"releaseDate":    "2024-05-01",
		"gameGenreNames": []string{genreName},
	}), http.StatusCreated, &game)
	if len(game.Genres) != 1 || game.Genres[0].Name != genreName {
		t.Fatalf("unexpected game genres: %+v", game.Genres)
	}

	var listed []gameResponse
	expectJSON(t, doJSON(t, http.MethodGet, "/game/all?genre="+genreName, "", nil), http.StatusOK, &listed)
	if len(listed) != 1 || listed[0].ID != game.ID {
		t.Fatalf("unexpected filtered games: %+v", listed)
	}

	var copyResp struct {
		ID            string  `json:"id"`
		PurchasePrice float64 `json:"purchasePrice"`
	}
	expectJSON(t, doJSON(t, http.MethodPost, "/gameusercopy/", buyerToken, map[string]string{"gameId": game.ID}), http.StatusCreated, &copyResp)
	if copyResp.PurchasePrice != 29.5 {
		t.Fatalf("unexpected purchase price: %v", copyResp.PurchasePrice)
	}

	uploadMedia(t, adminToken, game.ID)

	expectStatus(t, doJSON(t, http.MethodDelete, "/gameusercopy/"+copyResp.ID, buyerToken, nil), http.StatusNoContent)
	expectStatus(t, doJSON(t, http.MethodDelete, "/game/"+game.ID, adminToken, nil), http.StatusNoContent)
	expectStatus(t, doJSON(t, http.MethodGet, "/game/"+game.ID, "", nil), http.StatusNotFound)
}

func TestRegisterRejectsAdministrator(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/user/register", "", map[string]any{
		"email":    fmt.Sprintf("sneaky_%d@example.com", time.Now().UnixNano()),
		"password": "testpass123!",
		"roles":    []string{"administrator"},
	})
	expectStatus(t, resp, http.StatusConflict)
}

func TestIncrementRating(t *testing.T) {
	body := `<SongRequest><Name>Intro</Name><Length>1.5</Length><ReleaseDate>2001-01-01</ReleaseDate>` +
		`<Writer gender="female">A</Writer><Singer gender="female">B</Singer><Genre>Pop</Genre>` +
		`<Rating>3</Rating></SongRequest>`

	req, err := http.NewRequest(http.MethodPut, baseURL+"/xmlprocessor/increment-rating", strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/xml")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("increment rating: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(out), "<Rating>4</Rating>") {
		t.Fatalf("unexpected response %d: %s", resp.StatusCode, out)
	}
}

type idName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type gameResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []idName `json:"gameGenres"`
}

func registerUser(t *testing.T, email string) idName {
	t.Helper()

	var user idName
	expectJSON(t, doJSON(t, http.MethodPost, "/user/register", "", map[string]any{
		"email":    email,
		"username": "Test Player",
		"password": "testpass123!",
		"roles":    []string{"user"},
	}), http.StatusCreated, &user)
	if user.ID == "" {
		t.Fatalf("missing id in register response")
	}
	return user
}

func login(t *testing.T, email string) string {
	t.Helper()

	var parsed struct {
		JWT string `json:"jwt"`
	}
	expectJSON(t, doJSON(t, http.MethodPost, "/user/login", "", map[string]string{
		"email":    email,
		"password": "testpass123!",
	}), http.StatusOK, &parsed)
	if parsed.JWT == "" {
		t.Fatalf("missing token in login response")
	}
	return parsed.JWT
}

func uploadMedia(t *testing.T, token, gameID string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("gameId", gameID); err != nil {
		t.Fatalf("write gameId: %v", err)
	}
	part, err := writer.CreateFormFile("file", "cover.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("not really a png")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/gamefiledescription/", &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload media: %v", err)
	}
	var media idName
	expectJSON(t, resp, http.StatusCreated, &media)

	content, err := http.Get(baseURL + "/gamefiledescription/" + media.ID + "/content")
	if err != nil {
		t.Fatalf("download media: %v", err)
	}
	defer content.Body.Close()
	data, _ := io.ReadAll(content.Body)
	if string(data) != "not really a png" {
		t.Fatalf("unexpected media bytes: %q", data)
	}
}

func doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != status {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, status, strings.TrimSpace(string(msg)))
	}
}

func expectJSON(t *testing.T, resp *http.Response, status int, dst any) {
	t.Helper()
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != status {
		t.Fatalf("%s %s: status %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, status, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func promoteUserToAdmin(userID string) error {
	cfg := config.LoadConfig()
	conn, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = conn.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role_id)
		SELECT gen_random_uuid(), $1, id FROM roles WHERE name = 'administrator'
		ON CONFLICT DO NOTHING`, userID)
	return err
}

func waitForPostgres(ctx context.Context) error {
	cfg := config.LoadConfig()
	conn, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres ping timeout: %w", err)
		case <-ticker.C:
		}
	}
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}

func runMigrations() error {
	cfg := config.LoadConfig()
	migrator, err := db.NewMigrator(cfg.MigrationsPath, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = migrator.Close()
	}()
	return migrator.Up()
}

func setTestEnv(root string) {
	_ = os.Setenv("JWT_SECRET", "test-secret")
	_ = os.Setenv("SERVER_PORT", fmt.Sprintf("%d", serverPort))
	_ = os.Setenv("DB_HOST", "localhost")
	_ = os.Setenv("DB_PORT", "5432")
	_ = os.Setenv("DB_USER", "gamestore")
	_ = os.Setenv("DB_PASSWORD", "gamestore")
	_ = os.Setenv("DB_NAME", "gamestore")
	_ = os.Setenv("DB_SSL", "false")
	_ = os.Setenv("STORAGE_BACKEND", "minio")
	_ = os.Setenv("MINIO_ACCESS_KEY", "minioadmin")
	_ = os.Setenv("MINIO_SECRET_KEY", "minioadmin")
	_ = os.Setenv("MINIO_BUCKET", "gamestore")
	_ = os.Setenv("MQ_BACKEND", "none")
	_ = os.Setenv("MIGRATIONS_PATH", filepath.Join(root, "internal", "db", "migrations"))
}

func startServer(ctx context.Context) (<-chan struct{}, error) {
	cfg := config.LoadConfig()
	logger := logging.New("warn", "text", os.Stderr)
	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Start(ctx)
	}()
	return done, nil
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	composeFile := filepath.Join(root, "development", "docker-compose.yml")
	baseArgs := append([]string{"compose", "-f", composeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", baseArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
