package rules_test

import (
	"errors"
	"testing"

	"github.com/giuliocaccin/excel-csv-merger/internal/rules"
	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reach   = rules.Rule{NameMatch: "Reach", Start: rules.Start{Column: 0, Row: 2}, Naming: rules.NamingIndex}
	actions = rules.Rule{NameMatch: "Actions On Post", Start: rules.Start{Column: 1, Row: 1}, Naming: rules.NamingTitle}
	post    = rules.Rule{NameMatch: "Post", Naming: rules.NamingTitle}
)

func TestResolve(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		r, err := rules.Resolve("Lifetime Reach", []rules.Rule{reach, actions})
		require.NoError(t, err)
		assert.Equal(t, reach, r)
	})

	t.Run("IgnoresCase", func(t *testing.T) {
		r, err := rules.Resolve("actions on post", []rules.Rule{reach, actions})
		require.NoError(t, err)
		assert.Equal(t, actions, r)
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := rules.Resolve("Impressions", []rules.Rule{reach, actions})
		assert.ErrorIs(t, err, rules.ErrNoMatch)
		assert.NotErrorIs(t, err, rules.ErrAmbiguousMatch)
	})

	t.Run("Ambiguous", func(t *testing.T) {
		_, err := rules.Resolve("Actions On Post", []rules.Rule{reach, actions, post})
		assert.ErrorIs(t, err, rules.ErrAmbiguousMatch)
		var matchErr *rules.MatchError
		require.True(t, errors.As(err, &matchErr))
		assert.Equal(t, []rules.Rule{actions, post}, matchErr.Candidates)
		assert.Contains(t, err.Error(), `"Post"`)
	})
}

func TestPlan(t *testing.T) {
	descriptors := []workbook.Descriptor{
		{OriginFile: "a.xlsx", Position: 0, Name: "Reach"},
		{OriginFile: "a.xlsx", Position: 1, Name: "Actions On Post"},
		{OriginFile: "a.xlsx", Position: 2, Name: "Impressions"},
		{OriginFile: "b.xlsx", Position: 0, Name: "Actions On Post"},
		{OriginFile: "b.xlsx", Position: 1, Name: "Reach"},
		{OriginFile: "c.xlsx", Position: 0, Name: "Daily Reach"},
		{OriginFile: "d.xlsx", Position: 0, Name: "reach"},
	}

	t.Run("GroupsByExactName", func(t *testing.T) {
		groups, err := rules.Plan(descriptors, []rules.Rule{reach, actions})
		require.NoError(t, err)
		assert.Equal(t, []rules.Group{
			{Sheet: "Reach", Rule: reach, Files: []string{"a.xlsx", "b.xlsx"}},
			{Sheet: "Actions On Post", Rule: actions, Files: []string{"a.xlsx", "b.xlsx"}},
			{Sheet: "Daily Reach", Rule: reach, Files: []string{"c.xlsx"}},
			{Sheet: "reach", Rule: reach, Files: []string{"d.xlsx"}},
		}, groups)
	})

	t.Run("UnmatchedSheetsContributeNothing", func(t *testing.T) {
		groups, err := rules.Plan(descriptors, []rules.Rule{actions})
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "Actions On Post", groups[0].Sheet)
	})

	t.Run("AmbiguousReportedUpFront", func(t *testing.T) {
		many := append(descriptors, workbook.Descriptor{OriginFile: "e.xlsx", Name: "Post Reach"})
		_, err := rules.Plan(many, []rules.Rule{reach, actions, post})
		require.Error(t, err)
		assert.ErrorIs(t, err, rules.ErrAmbiguousMatch)
		assert.Contains(t, err.Error(), `"Actions On Post"`)
		assert.Contains(t, err.Error(), `"Post Reach"`)
	})

	t.Run("Empty", func(t *testing.T) {
		groups, err := rules.Plan(nil, []rules.Rule{reach})
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}
