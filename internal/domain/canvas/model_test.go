package canvas_test

import (
	"encoding/json"
	"testing"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/stretchr/testify/require"
)

func TestItemStatus_CycleIsClosed(t *testing.T) {
	status := canvas.StatusAssumption
	status = status.Next()
	require.Equal(t, canvas.StatusTesting, status)
	status = status.Next()
	require.Equal(t, canvas.StatusValidated, status)
	status = status.Next()
	require.Equal(t, canvas.StatusAssumption, status)
}

func TestSections_PerType(t *testing.T) {
	require.Len(t, canvas.Sections(canvas.TypeBusinessModel), 9)
	require.Len(t, canvas.Sections(canvas.TypeProduct), 9)
	require.Len(t, canvas.Sections(canvas.TypeSocialBusiness), 11)

	require.True(t, canvas.HasSection(canvas.TypeSocialBusiness, canvas.ImpactMeasures))
	require.False(t, canvas.HasSection(canvas.TypeBusinessModel, canvas.ImpactMeasures))
	require.True(t, canvas.HasSection(canvas.TypeProduct, canvas.Channels))
}

func TestParseSection(t *testing.T) {
	s, err := canvas.ParseSection("value_propositions")
	require.NoError(t, err)
	require.Equal(t, canvas.ValuePropositions, s)
	require.Equal(t, "value_propositions", s.String())

	_, err = canvas.ParseSection("key_people")
	require.ErrorIs(t, err, canvas.ErrUnknownSection)
}

func TestCanvas_JSONUsesSectionNames(t *testing.T) {
	c := canvas.Empty("p1", canvas.TypeProduct)
	c.Sections[canvas.Needs] = []canvas.Item{{ID: "i1", Text: "Faster invoicing", Status: canvas.StatusTesting}}

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"needs":[{"id":"i1"`)

	var decoded canvas.Canvas
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, c.Sections[canvas.Needs], decoded.Sections[canvas.Needs])
	require.Len(t, decoded.Sections, 9)
}
