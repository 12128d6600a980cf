// Package xmlrating increments the rating of a song request XML document.
//
// Two variants are offered. IncrementRating works on the decoded
// SongRequest. IncrementRatingTree works on the raw element tree and
// validates Tag nodes by hand before touching the Rating node.
package xmlrating

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// MaxRating is the highest rating a song request can hold.
const MaxRating = 10

const dateLayout = "2006-01-02"

// Tag is a song classification carried by a Tag node.
type Tag string

const (
	TagComedy   Tag = "COMEDY"
	TagDrama    Tag = "DRAMA"
	TagThriller Tag = "THRILLER"
	TagHorror   Tag = "HORROR"
	TagAction   Tag = "ACTION"
)

// Tags lists the accepted tag values in declaration order.
var Tags = []Tag{TagComedy, TagDrama, TagThriller, TagHorror, TagAction}

func acceptedTags() string {
	names := make([]string, 0, len(Tags))
	for _, t := range Tags {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the names in Tags
// are accepted.
func (t *Tag) UnmarshalText(text []byte) error {
	candidate := Tag(strings.TrimSpace(string(text)))
	if !slices.Contains(Tags, candidate) {
		return fmt.Errorf("tag %q is not one of %s", candidate, acceptedTags())
	}
	*t = candidate
	return nil
}

// Date is a calendar date encoded as an xsd:date.
type Date struct {
	time.Time
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(dateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// Person is a writer or singer credit.
type Person struct {
	Gender string `xml:"gender,attr"`
	Name   string `xml:",chardata"`
}

// TagEntry is one weighted Tag node.
type TagEntry struct {
	Weight int `xml:"weight,attr"`
	Value  Tag `xml:",chardata"`
}

// SongRequest is the typed form of a <SongRequest> document. Element names
// are case sensitive.
type SongRequest struct {
	XMLName     xml.Name   `xml:"SongRequest"`
	Name        string     `xml:"Name"`
	Length      float64    `xml:"Length"`
	ReleaseDate Date       `xml:"ReleaseDate"`
	Writer      Person     `xml:"Writer"`
	Singer      Person     `xml:"Singer"`
	Genre       string     `xml:"Genre"`
	Rating      int        `xml:"Rating"`
	Tags        []TagEntry `xml:"Tags>Tag,omitempty"`
}

// Decode reads a SongRequest document from r.
func Decode(r io.Reader) (SongRequest, error) {
	var doc SongRequest
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return SongRequest{}, err
	}
	return doc, nil
}

// IncrementRating returns doc serialized with its rating raised by one.
// doc itself is not modified.
func IncrementRating(doc SongRequest) (string, error) {
	if doc.Rating >= MaxRating {
		return "", ErrRatingAtMax
	}

	next := doc
	next.Tags = slices.Clone(doc.Tags)
	next.Rating++

	out, err := xml.Marshal(next)
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

// ErrorBody is the XML document returned for a rejected request.
type ErrorBody struct {
	XMLName       xml.Name `xml:"Error"`
	Message       string   `xml:"Message"`
	ErrorTypeName string   `xml:"ErrorTypeName"`
}

// ErrorTypeUpdate classifies every rating failure.
const ErrorTypeUpdate = "UPDATE"

// NewErrorBody describes err as an update failure. Rating failures carry
// their client message; anything else carries err's text.
func NewErrorBody(err error) ErrorBody {
	message := err.Error()
	for _, known := range rejections {
		if errors.Is(err, known.err) {
			message = known.message
			break
		}
	}
	return ErrorBody{Message: message, ErrorTypeName: ErrorTypeUpdate}
}

// IsRejection reports whether err is one of the documented rating
// failures rather than a decoding problem.
func IsRejection(err error) bool {
	for _, known := range rejections {
		if errors.Is(err, known.err) {
			return true
		}
	}
	return false
}
