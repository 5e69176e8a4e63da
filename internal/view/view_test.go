package view

import (
	"fmt"
	"testing"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.New()
	id := s.AddPaper(paper.Paper{Title: "A", Author: "X", PI: paper.Unknown, Year: "2001"})
	require.Equal(t, "0001", id)
	s.AddPaper(paper.Paper{ID: "0002", Title: "B", Author: "Y", PI: paper.Unknown, Year: "2011"})
	require.True(t, s.AddCitation("0001", "0002"))
	return s
}

func TestDecadeLabel(t *testing.T) {
	tests := []struct {
		year string
		want string
	}{
		{"1994", "1990s"},
		{"2000", "2000s"},
		{" 2019 ", "2010s"},
		{"n/a", "Unknown"},
		{"Unknown", "Unknown"},
		{"", "Unknown"},
		{"1994a", "Unknown"},
		{"-5", "-10s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DecadeLabel(tt.year), "year %q", tt.year)
	}
}

func TestDecadeColor(t *testing.T) {
	assert.Equal(t, "rgb(255, 0, 0)", DecadeColor("1965"))
	assert.Equal(t, "rgb(0, 255, 0)", DecadeColor("1994"))
	assert.Equal(t, "rgb(148, 0, 211)", DecadeColor("2024"))
	assert.Equal(t, "rgb(200, 0, 255)", DecadeColor("2031"))
	assert.Equal(t, DefaultColor, DecadeColor("1955"))
	assert.Equal(t, DefaultColor, DecadeColor("n/a"))
}

func TestGroupByDecade_Scenario(t *testing.T) {
	groups := GroupByDecade(scenarioStore(t))

	require.Len(t, groups, 2)
	assert.Equal(t, Group{Label: "2000s", Color: "rgb(0, 0, 255)", IDs: []string{"0001"}}, groups[0])
	assert.Equal(t, Group{Label: "2010s", Color: "rgb(75, 0, 130)", IDs: []string{"0002"}}, groups[1])
}

func TestGroupByDecade_Ordering(t *testing.T) {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "a", Year: "n/a"})
	s.AddPaper(paper.Paper{ID: "b", Year: "2021"})
	s.AddPaper(paper.Paper{ID: "c", Year: "1994"})
	s.AddPaper(paper.Paper{ID: "d", Year: "1999"})
	s.AddPaper(paper.Paper{ID: "e", Year: "1870"})

	groups := GroupByDecade(s)
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"1870s", "1990s", "2020s", "Unknown"}, labels)
	assert.Equal(t, []string{"c", "d"}, groups[1].IDs)
	assert.Equal(t, DefaultColor, groups[0].Color)
	assert.Equal(t, DefaultColor, groups[3].Color)
}

func TestGroupByAuthor(t *testing.T) {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "1", Author: "Smith", PI: "Lee"})
	s.AddPaper(paper.Paper{ID: "2", Author: "Jones", PI: "Lee"})
	s.AddPaper(paper.Paper{ID: "3", Author: "Smith", PI: ""})

	sess := NewSession()
	groups := GroupByAuthor(s, sess)
	require.Len(t, groups, 2)
	assert.Equal(t, Group{Label: "Smith", Color: Palette[0], IDs: []string{"1", "3"}}, groups[0])
	assert.Equal(t, Group{Label: "Jones", Color: Palette[1], IDs: []string{"2"}}, groups[1])

	pis := GroupByPI(s, sess)
	require.Len(t, pis, 2)
	assert.Equal(t, "Lee", pis[0].Label)
	assert.Equal(t, "Unknown", pis[1].Label)
	assert.Equal(t, Palette[0], pis[0].Color, "PI colors are independent of author colors")
}

func TestGroupByAuthor_ColorsStableAcrossRenders(t *testing.T) {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "1", Author: "Smith"})
	sess := NewSession()
	first := GroupByAuthor(s, sess)

	s.AddPaper(paper.Paper{ID: "0", Author: "Jones"})
	second := GroupByAuthor(s, sess)

	require.Len(t, second, 2)
	assert.Equal(t, "Jones", second[0].Label)
	assert.Equal(t, Palette[1], second[0].Color)
	assert.Equal(t, first[0].Color, second[1].Color)
}

func TestColorAssigner_Exhaustion(t *testing.T) {
	c := NewColorAssigner()
	for i := 0; i < len(Palette); i++ {
		assert.Equal(t, Palette[i], c.Color(fmt.Sprintf("author-%d", i)))
	}

	assert.Equal(t, "rgb(29, 129, 101)", c.Color("author-20"))
	assert.Equal(t, "rgb(64, 169, 64)", c.Color("author-21"))
	assert.Equal(t, "rgb(29, 129, 101)", c.Color("author-20"), "repeat lookups are stable")
	assert.Equal(t, 22, c.Len())

	for i := 22; i < 40; i++ {
		c.Color(fmt.Sprintf("author-%d", i))
	}
	assert.Equal(t, "rgb(59, 159, 131)", c.Color("author-40"))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("PI")
	require.NoError(t, err)
	assert.Equal(t, ModePI, m)

	m, err = ParseMode("author")
	require.NoError(t, err)
	assert.Equal(t, ModeAuthor, m)

	_, err = ParseMode("venue")
	assert.Error(t, err)

	_, err = GroupBy(graph.New(), NewSession(), Mode("venue"))
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	rows := []Row{
		{ID: "1", Title: "Random Graphs", Year: "2020", Decade: "2020s"},
		{ID: "2", Title: "Graph theory", Year: "2019", Decade: "2010s"},
		{ID: "3", Title: "Proteins", Year: "2020", Decade: "2020s"},
	}

	got := Filter(rows, Criteria{Title: "graph", Year: "2020"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Equal(t, rows, Filter(rows, Criteria{}))
	assert.Len(t, Filter(rows, Criteria{Title: "GRAPH"}), 2)
	assert.Len(t, Filter(rows, Criteria{Decade: "2020s"}), 2)
	assert.Empty(t, Filter(rows, Criteria{Author: "nobody"}))
}

func TestRows(t *testing.T) {
	rows := Rows(scenarioStore(t))
	require.Len(t, rows, 2)
	assert.Equal(t, Row{ID: "0001", Title: "A", Author: "X", PI: "Unknown", Year: "2001", Decade: "2000s"}, rows[0])
}

func TestConnections(t *testing.T) {
	s := scenarioStore(t)

	c, err := Connections(s, "0001")
	require.NoError(t, err)
	assert.Empty(t, c.Citing)
	require.Len(t, c.Cited, 1)
	assert.Equal(t, "B", c.Cited[0].Title)

	c, err = Connections(s, "0002")
	require.NoError(t, err)
	require.Len(t, c.Citing, 1)
	assert.Equal(t, "0001", c.Citing[0].ID)

	_, err = Connections(s, "9999")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestHighlight(t *testing.T) {
	s := scenarioStore(t)
	s.AddPaper(paper.Paper{ID: "0003", Title: "C"})
	sess := NewSession()

	styles := Highlight(s, sess)
	for _, id := range s.IDs() {
		assert.Equal(t, NodeStyle{Size: 12, Opacity: 1.0}, styles[id])
	}

	sess.Select("0001")
	styles = Highlight(s, sess)
	assert.Equal(t, NodeStyle{Size: 20, Opacity: 1.0}, styles["0001"])
	assert.Equal(t, NodeStyle{Size: 16, Opacity: 0.9}, styles["0002"])
	assert.Equal(t, NodeStyle{Size: 12, Opacity: 0.3}, styles["0003"])

	assert.True(t, EdgeHighlighted(paper.Citation{From: "0001", To: "0002"}, sess))
	assert.False(t, EdgeHighlighted(paper.Citation{From: "0002", To: "0003"}, sess))

	require.NoError(t, s.DeletePaper("0001"))
	styles = Highlight(s, sess)
	assert.Equal(t, NodeStyle{Size: 12, Opacity: 1.0}, styles["0002"], "stale selection is ignored")
}

func TestNilSession(t *testing.T) {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "0001", Author: "Smith", PI: "Jones", Year: "1995"})
	s.AddPaper(paper.Paper{ID: "0002", Author: "Brown", PI: "Jones", Year: "2003"})
	s.AddCitation("0001", "0002")

	var sess *Session
	assert.Equal(t, "", sess.Selected())

	for _, mode := range []Mode{ModeAuthor, ModePI, ModeDecade} {
		groups, err := GroupBy(s, sess, mode)
		require.NoError(t, err, mode)
		assert.NotEmpty(t, groups, mode)
	}

	authors := GroupByAuthor(s, nil)
	require.Len(t, authors, 2)
	assert.Equal(t, Palette[0], authors[0].Color)

	styles := Highlight(s, sess)
	assert.Equal(t, NodeStyle{Size: 12, Opacity: 1.0}, styles["0001"])
	assert.False(t, EdgeHighlighted(paper.Citation{From: "0001", To: "0002"}, sess))
}
