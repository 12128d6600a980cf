package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/store/memory"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MediaServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	objects *memoryObjects
	events  *recordingPublisher
	service *MediaService
	game    types.Game
	ctx     context.Context
}

func TestMediaServiceSuite(t *testing.T) {
	suite.Run(t, new(MediaServiceSuite))
}

func (s *MediaServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.objects = newMemoryObjects()
	s.events = &recordingPublisher{}
	s.service = NewMediaService(s.storage, s.objects, s.events, logging.Discard())

	var err error
	s.game, err = s.storage.CreateGame(s.ctx, types.Game{Name: "Tetris"})
	s.Require().NoError(err)
}

func upload(content string) MediaUpload {
	return MediaUpload{
		FileName:    "cover.png",
		ContentType: "image/png",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	}
}

func (s *MediaServiceSuite) TestUploadAndOpen() {
	media, err := s.service.Upload(s.ctx, s.game.ID, upload("png-bytes"))
	s.Require().NoError(err)
	s.Equal("cover.png", media.FileName)
	s.Equal(int64(9), media.Size)
	s.True(strings.HasPrefix(media.ObjectKey, "games/"+s.game.ID.String()+"/"))
	s.Equal([]string{EventMediaUploaded}, s.events.channels())

	opened, body, err := s.service.Open(s.ctx, media.ID)
	s.Require().NoError(err)
	defer body.Close()
	data, err := io.ReadAll(body)
	s.Require().NoError(err)
	s.Equal("png-bytes", string(data))
	s.Equal(media.ID, opened.ID)

	byGame, err := s.service.GetByGame(s.ctx, s.game.ID)
	s.Require().NoError(err)
	s.Equal(media.ID, byGame.ID)
}

func (s *MediaServiceSuite) TestUploadOnePerGame() {
	_, err := s.service.Upload(s.ctx, s.game.ID, upload("one"))
	s.Require().NoError(err)

	_, err = s.service.Upload(s.ctx, s.game.ID, upload("two"))
	s.ErrorIs(err, ErrConflict)
	s.Equal(1, s.objects.count())
}

func (s *MediaServiceSuite) TestUploadRejectsEmptyFile() {
	_, err := s.service.Upload(s.ctx, s.game.ID, upload(""))
	s.ErrorIs(err, ErrValidation)
}

func (s *MediaServiceSuite) TestUploadUnknownGame() {
	_, err := s.service.Upload(s.ctx, uuid.New(), upload("bytes"))
	s.ErrorIs(err, ErrNotFound)
	s.Zero(s.objects.count())
}

func (s *MediaServiceSuite) TestUploadStorageFailure() {
	s.objects.putErr = errors.New("bucket unavailable")

	_, err := s.service.Upload(s.ctx, s.game.ID, upload("bytes"))
	s.Error(err)

	items, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *MediaServiceSuite) TestDeleteRemovesObject() {
	media, err := s.service.Upload(s.ctx, s.game.ID, upload("bytes"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, media.ID))
	s.Zero(s.objects.count())
	_, err = s.service.Get(s.ctx, media.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *MediaServiceSuite) TestListDetailsEmbedsGame() {
	media, err := s.service.Upload(s.ctx, s.game.ID, upload("bytes"))
	s.Require().NoError(err)

	details, err := s.service.ListDetails(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(details, 1)
	s.Equal(media.ID, details[0].ID)
	s.Equal(s.game.ID, details[0].Game.ID)
	s.Equal(s.game.Name, details[0].Game.Name)
}
