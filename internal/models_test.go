package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_Menu_Validate(t *testing.T) {
	valid := map[string]Menu{
		"simple":    SimpleList("Pizzabuffé"),
		"titled":    TitledList(Dish{Title: "Fisk", Description: "Torsk"}),
		"keyed":     KeyedMap(map[string]string{"Soppa": "Tomat"}),
		"segmented": SegmentedList(Segment{Header: "Veckans", Contents: []Dish{{Title: "A", Description: "B"}}}),
		"link":      LinkOnly("Oförändrad lunchmeny", "https://example.com"),
		"failure":   Failure("wrong week"),
	}
	for name, m := range valid {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.Validate())
		})
	}

	invalid := map[string]Menu{
		"content and error":  {Variant: VariantSimple, Lines: []string{"x"}, Error: "wrong day"},
		"two payloads":       {Variant: VariantTitled, Dishes: []Dish{}, Lines: []string{"x"}},
		"unknown variant":    {Variant: "table"},
		"empty failure":      {Variant: VariantFailure},
		"link without href":  {Variant: VariantLink, Link: &Link{Display: "menu"}},
		"bare titled":        {Variant: VariantTitled},
		"empty simple":       SimpleList(),
		"blank line":         SimpleList("Soppa", ""),
		"nil keyed":          KeyedMap(nil),
		"empty keyed":        KeyedMap(map[string]string{}),
		"blank keyed value":  KeyedMap(map[string]string{"Soppa": ""}),
		"empty segmented":    SegmentedList(),
		"empty segment":      SegmentedList(Segment{Header: "Veckans"}),
		"blank dish":         TitledList(Dish{Title: "", Description: ""}),
		"half dish":          TitledList(Dish{Title: "Fisk"}),
		"blank segment dish": SegmentedList(Segment{Header: "Måndag", Contents: []Dish{{Title: "Pad Thai"}}}),
	}
	for name, m := range invalid {
		t.Run(name, func(t *testing.T) {
			require.Error(t, m.Validate())
		})
	}
}

func TestUnit_Menu_JSONEnvelope(t *testing.T) {
	b, err := json.Marshal(TitledList(Dish{Title: "Fisk", Description: "Torsk"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"variant":"titled","dishes":[{"title":"Fisk","description":"Torsk"}]}`, string(b))

	b, err = json.Marshal(Failure("wrong day"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"variant":"failure","error":"wrong day"}`, string(b))

	var m Menu
	require.NoError(t, json.Unmarshal([]byte(`{"variant":"link","link":{"href":"https://x.se","display":"x"}}`), &m))
	require.NoError(t, m.Validate())
	assert.Equal(t, "https://x.se", m.Link.Href)
}

func TestUnit_Temporal(t *testing.T) {
	assert.True(t, Temporal(ErrWrongDay))
	assert.True(t, Temporal(ErrWrongWeek))
	assert.False(t, Temporal(ErrParsing))
	assert.False(t, Temporal(nil))
}
