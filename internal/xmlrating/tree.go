package xmlrating

import (
	"errors"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

var (
	ErrRatingAtMax       = errors.New("rating is already at its maximum")
	ErrTagWeightNotInt   = errors.New("tag weight is not an integer")
	ErrTagWeightMissing  = errors.New("tag weight is missing")
	ErrTagValueNumeric   = errors.New("tag value is numeric")
	ErrTagValueUnknown   = errors.New("tag value is not accepted")
	ErrTagValueMissing   = errors.New("tag value is missing")
	ErrRatingNotInt      = errors.New("rating is not an integer")
	ErrRatingNodeMissing = errors.New("rating node is missing")
)

// rejections pairs each rating failure with the message sent to clients.
var rejections = []struct {
	err     error
	message string
}{
	{ErrRatingAtMax, "Couldn't increment rating, because it has currently max value (10)"},
	{ErrTagWeightNotInt, `"Tag" node has "weight" attribute that's not integer (with double quotes)`},
	{ErrTagWeightMissing, `"Tag" node is missing mandatory "weight" attribute`},
	{ErrTagValueNumeric, `"Tag" node contains value which is integer (you need to specify string representation)`},
	{ErrTagValueUnknown, `"Tag" node contains value which is not accepted. Accepted values: ` + acceptedTags()},
	{ErrTagValueMissing, `"Tag" node is missing mandatory value`},
	{ErrRatingNotInt, `Couldn't parse "Rating" node value to integer`},
	{ErrRatingNodeMissing, `Couldn't find "Rating" node`},
}

// ErrNoRoot is returned when the input holds no root element.
var ErrNoRoot = errors.New("document has no root element")

const declaration = `version="1.0" encoding="utf-8"`

// IncrementRatingTree validates the Tag nodes of a SongRequest document,
// raises its Rating by one and returns the document with an XML
// declaration. Tags are optional; every Tag present must carry an integer
// weight attribute and one of the accepted names as its value.
func IncrementRatingTree(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", err
	}
	root := doc.Root()
	if root == nil {
		return "", ErrNoRoot
	}

	if tags := root.SelectElement("Tags"); tags != nil {
		for _, tag := range tags.SelectElements("Tag") {
			if err := checkTag(tag); err != nil {
				return "", err
			}
		}
	}

	rating := root.SelectElement("Rating")
	if rating == nil {
		return "", ErrRatingNodeMissing
	}
	current, err := parseInt(rating.Text())
	if err != nil {
		return "", ErrRatingNotInt
	}
	if current >= MaxRating {
		return "", ErrRatingAtMax
	}
	rating.SetText(strconv.Itoa(current + 1))

	out := etree.NewDocument()
	out.CreateProcInst("xml", declaration)
	out.SetRoot(root)
	return out.WriteToString()
}

func checkTag(tag *etree.Element) error {
	weight := tag.SelectAttr("weight")
	if weight == nil {
		return ErrTagWeightMissing
	}
	if _, err := parseInt(weight.Value); err != nil {
		return ErrTagWeightNotInt
	}

	value := tag.Text()
	if value == "" {
		return ErrTagValueMissing
	}
	if _, err := parseInt(value); err == nil {
		return ErrTagValueNumeric
	}
	for _, accepted := range Tags {
		if value == string(accepted) {
			return nil
		}
	}
	return ErrTagValueUnknown
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
