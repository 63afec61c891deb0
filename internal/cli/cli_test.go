package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run, root komutu verilen argümanlarla çalıştırır ve stdout'u döner.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestExplain_Text(t *testing.T) {
	out, err := run(t, "explain", "Event", "venue")
	require.NoError(t, err)

	assert.Contains(t, out,
		`INNER JOIN "venues" ON "events"."venue_id" = "venues"."id" AND "venues"."deleted_at" IS NULL`)
}

func TestExplain_TypeAndAliases(t *testing.T) {
	out, err := run(t, "explain", "Event", "venue", "--type", "left", "--self", "e", "--segment", "venue=v")
	require.NoError(t, err)

	assert.Contains(t, out, `FROM "events" AS "e"`)
	assert.Contains(t, out, `LEFT JOIN "venues" AS "v" ON "e"."venue_id" = "v"."id" AND "v"."deleted_at" IS NULL`)
}

func TestExplain_RootModelAlias(t *testing.T) {
	out, err := run(t, "explain", "Event", "venue", "--model", "Event=e")
	require.NoError(t, err)

	assert.Contains(t, out, `FROM "events" AS "e"`)
	assert.Contains(t, out, `"e"."venue_id" = "venues"."id"`)
}

func TestExplain_MorphBindings(t *testing.T) {
	out, err := run(t, "explain", "Event", "cover")
	require.NoError(t, err)

	assert.Contains(t, out, `"images"."imageable_type" = ?`)
	assert.Contains(t, out, "-- bindings: [Event]")
}

func TestExplain_JSON(t *testing.T) {
	out, err := run(t, "explain", "Venue", "seats", "-o", "json")
	require.NoError(t, err)

	var payload struct {
		SQL   string `json:"sql"`
		Joins []struct {
			Table string `json:"table"`
		} `json:"joins"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Joins, 2)
	assert.Equal(t, "sections", payload.Joins[0].Table)
	assert.Equal(t, "seats", payload.Joins[1].Table)
}

func TestExplain_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad join type", []string{"explain", "Event", "venue", "--type", "outer"}},
		{"bad segment alias", []string{"explain", "Event", "venue", "--segment", "venue"}},
		{"unknown model", []string{"explain", "Concert", "venue"}},
		{"unknown relation", []string{"explain", "Event", "stage"}},
		{"morph to", []string{"explain", "Comment", "commentable"}},
		{"missing args", []string{"explain", "Event"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestModels(t *testing.T) {
	out, err := run(t, "models")
	require.NoError(t, err)

	assert.Contains(t, out, "Event")
	assert.Contains(t, out, "morphToMany")

	out, err = run(t, "models", "-o", "json")
	require.NoError(t, err)

	var views []modelView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}
	assert.Contains(t, names, "SectionPrice")
}
