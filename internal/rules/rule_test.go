package rules_test

import (
	"testing"

	"github.com/giuliocaccin/excel-csv-merger/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_ColumnID(t *testing.T) {
	index := rules.Rule{NameMatch: "Reach", Naming: rules.NamingIndex}
	title := rules.Rule{NameMatch: "Reach", Naming: rules.NamingTitle}

	assert.Equal(t, "Likes [0]", index.ColumnID("Likes", 0))
	assert.Equal(t, "Likes [2]", index.ColumnID("Likes", 2))
	assert.Equal(t, " [3]", index.ColumnID("", 3))
	assert.Equal(t, "Likes", title.ColumnID("Likes", 0))
	assert.Equal(t, "Likes", title.ColumnID("Likes", 2))
}

func TestRule_Matches(t *testing.T) {
	r := rules.Rule{NameMatch: "Reach"}
	assert.True(t, r.Matches("Reach"))
	assert.True(t, r.Matches("Post reach (daily)"))
	assert.True(t, r.Matches("REACH"))
	assert.False(t, r.Matches("Actions On Post"))
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		in      string
		want    rules.Rule
		wantErr bool
	}{
		{in: "Reach:0:2:index", want: rules.Rule{NameMatch: "Reach", Start: rules.Start{Column: 0, Row: 2}, Naming: rules.NamingIndex}},
		{in: "Actions On Post:1:1:Title", want: rules.Rule{NameMatch: "Actions On Post", Start: rules.Start{Column: 1, Row: 1}, Naming: rules.NamingTitle}},
		{in: "a:b:3:4:title", want: rules.Rule{NameMatch: "a:b", Start: rules.Start{Column: 3, Row: 4}, Naming: rules.NamingTitle}},
		{in: "Reach:0:2", wantErr: true},
		{in: "Reach:x:2:index", wantErr: true},
		{in: "Reach:0:y:index", wantErr: true},
		{in: "Reach:0:2:position", wantErr: true},
		{in: ":0:2:index", wantErr: true},
		{in: "Reach:-1:2:index", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := rules.ParseRule(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRule_String(t *testing.T) {
	r := rules.Rule{NameMatch: "Reach", Start: rules.Start{Column: 0, Row: 2}, Naming: rules.NamingIndex}
	assert.Equal(t, "Reach:0:2:index", r.String())
	back, err := rules.ParseRule(r.String())
	require.NoError(t, err)
	assert.Equal(t, r, back)
}
