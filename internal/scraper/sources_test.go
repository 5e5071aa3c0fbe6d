package scraper

import (
	"os"
	"testing"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceCase struct {
	name    string
	date    string
	want    internal.Menu
	wantErr error
}

func runSourceCases(t *testing.T, sourceName string, cases []sourceCase) {
	t.Helper()
	s := goldenSource(t, sourceName)
	require.Equal(t, sourceName, s.Descriptor())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FetchMenu(t.Context(), requestOn(t, tc.date))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, got.Validate())
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnit_Miamarias(t *testing.T) {
	runSourceCases(t, "miamarias", []sourceCase{
		{
			name: "day with three dishes",
			date: goldenDate,
			want: internal.TitledList(
				internal.Dish{Title: "Fisk", Description: "Stekt torsk med skirat smör, pepparrot & potatis"},
				internal.Dish{Title: "Kött", Description: "Kalops med rödbetor och kokt potatis"},
				internal.Dish{Title: "Veg", Description: "Halloumibiffar med tzatziki och bulgur"},
			),
		},
		{name: "day missing a dish", date: "2024-03-05", wantErr: internal.ErrParsing},
		{name: "day not on page", date: "2024-03-07", wantErr: internal.ErrWrongDay},
		{name: "same weekday next week", date: "2024-03-11", wantErr: internal.ErrWrongDay},
	})
}

func TestUnit_Spill(t *testing.T) {
	runSourceCases(t, "spill", []sourceCase{
		{
			name: "today",
			date: goldenDate,
			want: internal.SimpleList(
				"Krämig svampsoppa med rostat surdegsbröd",
				"Pulled pork-macka med coleslaw",
				"Falafel med hummus & picklad rödlök",
			),
		},
		{name: "tomorrow", date: "2024-03-05", wantErr: internal.ErrWrongDay},
	})
}

func TestUnit_Kolga(t *testing.T) {
	runSourceCases(t, "kolga", []sourceCase{
		{
			name: "monday",
			date: goldenDate,
			want: internal.SimpleList(
				"Köttbullar med gräddsås, potatismos och rårörda lingon",
				"Panerad sej med remouladsås och kokt potatis",
				"Vegetarisk lasagne med ruccola",
			),
		},
		{
			name: "tuesday",
			date: "2024-03-05",
			want: internal.SimpleList("Pasta med kyckling och soltorkade tomater", "Fiskgryta med aioli"),
		},
		{name: "same weekday next week", date: "2024-03-11", wantErr: internal.ErrWrongDay},
		{name: "saturday", date: "2024-03-09", wantErr: internal.ErrWrongDay},
	})
}

func TestUnit_Variation(t *testing.T) {
	runSourceCases(t, "variation", []sourceCase{
		{
			name: "monday",
			date: goldenDate,
			want: internal.SimpleList("Dagens buffé:", "Kycklinggryta med ris", "Ugnsbakad fiskgratäng", "Linsbiffar med yoghurtsås"),
		},
		{name: "saturday", date: "2024-03-09", wantErr: internal.ErrWrongDay},
	})
}

func TestUnit_P2(t *testing.T) {
	runSourceCases(t, "p2", []sourceCase{
		{
			name: "monday",
			date: goldenDate,
			want: internal.TitledList(
				internal.Dish{Title: "Kött", Description: "Grillad fläskkarré med rödvinssås och rostad potatis"},
				internal.Dish{Title: "Fisk", Description: "Ugnsbakad lax med dillsås"},
				internal.Dish{Title: "Vegetarisk", Description: "Svamprisotto med parmesan"},
			),
		},
		{name: "row without description", date: "2024-03-05", wantErr: internal.ErrParsing},
		{name: "row of blank paragraphs", date: "2024-03-07", wantErr: internal.ErrParsing},
		{name: "day not published", date: "2024-03-08", wantErr: internal.ErrWrongDay},
		{name: "page shows last week", date: "2024-03-11", wantErr: internal.ErrWrongWeek},
	})
}

func TestUnit_Dockanshamnkrog(t *testing.T) {
	runSourceCases(t, "dockanshamnkrog", []sourceCase{
		{name: "monday", date: goldenDate, want: internal.SimpleList("Pasta carbonara med rucolasallad")},
		{name: "friday", date: "2024-03-08", want: internal.SimpleList("Fish & chips med remoulad")},
		{name: "saturday", date: "2024-03-09", wantErr: internal.ErrWrongDay},
		{name: "page shows last week", date: "2024-03-11", wantErr: internal.ErrWrongWeek},
	})
}

func TestUnit_Namdo(t *testing.T) {
	runSourceCases(t, "namdo", []sourceCase{
		{
			name: "monday even week",
			date: goldenDate,
			want: internal.TitledList(
				internal.Dish{Title: "Pho bo", Description: "Risnudelsoppa med oxkött och örter"},
				internal.Dish{Title: "Bun cha", Description: "Grillat fläsk med risnudlar"},
				internal.Dish{Title: "Tofu curry", Description: "Röd curry med tofu och jasminris"},
			),
		},
		{
			name: "monday odd week",
			date: "2024-03-11",
			want: internal.TitledList(internal.Dish{Title: "Bo luc lac", Description: "Wokat oxkött med ris"}),
		},
		{
			name: "saturday with folded weekday",
			date: "2024-03-09",
			want: internal.TitledList(internal.Dish{Title: "Brunchbuffé", Description: "Vietnamesisk brunch"}),
		},
		{name: "titles and descriptions differ in count", date: "2024-03-05", wantErr: internal.ErrParsing},
		{name: "blank title", date: "2024-03-07", wantErr: internal.ErrParsing},
		{name: "day not published", date: "2024-03-06", wantErr: internal.ErrWrongDay},
	})
}

func TestUnit_Namdo_LengthMismatchIsWhole(t *testing.T) {
	s := goldenSource(t, "namdo")
	got, err := s.FetchMenu(t.Context(), requestOn(t, "2024-03-05"))
	require.ErrorIs(t, err, internal.ErrParsing)
	assert.Contains(t, err.Error(), "length mismatch")
	assert.Empty(t, got.Dishes, "no partial result")
}

func TestUnit_Storavarvsgatan6(t *testing.T) {
	runSourceCases(t, "storavarvsgatan6", []sourceCase{
		{
			name: "monday",
			date: goldenDate,
			want: internal.SimpleList("Raggmunk med stekt fläsk och lingon", "Vegetariskt: Raggmunk med rökt tofu"),
		},
		{name: "wednesday ends at empty paragraph", date: "2024-03-06", want: internal.SimpleList("Fisksoppa med aioli")},
		{name: "friday", date: "2024-03-08", wantErr: internal.ErrWrongDay},
		{name: "next week not posted", date: "2024-03-11", wantErr: internal.ErrWrongWeek},
	})
}

func TestUnit_Thapthim(t *testing.T) {
	weekly := internal.Segment{Header: "Veckans", Contents: []internal.Dish{
		{Title: "Pad Thai", Description: "Wokade risnudlar med räkor, ägg och jordnötter"},
		{Title: "Massaman", Description: "Mild curry med nötkött & potatis"},
	}}
	runSourceCases(t, "thapthim", []sourceCase{
		{
			name: "monday",
			date: goldenDate,
			want: internal.SegmentedList(weekly, internal.Segment{Header: "Måndag", Contents: []internal.Dish{
				{Title: "Kai Pad Med Mamuang", Description: "Kyckling med cashewnötter och grönsaker"},
			}}),
		},
		{name: "empty day", date: "2024-03-06", wantErr: internal.ErrWrongDay},
		{name: "blank title", date: "2024-03-09", wantErr: internal.ErrParsing},
		{
			name: "tuesday",
			date: "2024-03-05",
			want: internal.SegmentedList(weekly, internal.Segment{Header: "Tisdag", Contents: []internal.Dish{
				{Title: "Phad Kra Pao", Description: "Fläskfärs med thaibasilika och chili"},
			}}),
		},
		{name: "null day", date: "2024-03-07", wantErr: internal.ErrWrongDay},
		{name: "missing day", date: "2024-03-08", wantErr: internal.ErrWrongDay},
	})
}

func TestUnit_Sources_FetchFailure(t *testing.T) {
	for name, build := range goldenSources {
		t.Run(name, func(t *testing.T) {
			server := MountGoldenTestServer(t, name)
			s := build(WithBaseURL(server.URL+"/moved"), WithClient(server.Client()))
			_, err := s.FetchMenu(t.Context(), requestOn(t, goldenDate))
			require.ErrorIs(t, err, internal.ErrFetch)
		})
	}
}

func TestUnit_New(t *testing.T) {
	for _, d := range ScrapedDescriptors() {
		s, err := New(d)
		require.NoError(t, err)
		assert.Equal(t, d, s.Descriptor())
		_, ok := s.(internal.GoldenSource)
		assert.True(t, ok, "%s should support golden files", d)
	}
	_, err := New("glasklart")
	require.ErrorIs(t, err, ErrSourceNotFound)
}

func TestUnit_Statics(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Statics() {
		menu, err := s.FetchMenu(t.Context(), requestOn(t, goldenDate))
		require.NoError(t, err)
		require.NoError(t, menu.Validate())
		assert.NotEqual(t, internal.VariantFailure, menu.Variant)
		seen[s.Descriptor()] = true
	}
	assert.Len(t, seen, 5)

	menu, err := CurryRepublik().FetchMenu(t.Context(), requestOn(t, goldenDate))
	require.NoError(t, err)
	assert.Equal(t, internal.VariantLink, menu.Variant)
	assert.NotEmpty(t, menu.Link.Href)
}

func TestIntegration_Sources(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("INTEGRATION is not set")
	}
	req := internal.MenuRequest{Now: clock.System(nil).Now()}
	for _, d := range ScrapedDescriptors() {
		t.Run(d, func(t *testing.T) {
			s, err := New(d)
			require.NoError(t, err)
			menu, err := s.FetchMenu(t.Context(), req)
			if internal.Temporal(err) {
				t.Skipf("%s has no menu for %s: %v", d, req.Now.Date, err)
			}
			require.NoError(t, err)
			require.NoError(t, menu.Validate())
			t.Logf("%s: %+v", d, menu)
		})
	}
}
