package sink_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/edixml/pkg/edifact"
	"github.com/yaklabco/edixml/pkg/sink"
)

func TestSQLiteSink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "db", "edixml.db")
	runID := uuid.New().String()

	s, err := sink.OpenSQLite(dbPath, runID)
	require.NoError(t, err)

	sources := map[string]string{
		"b.edi": "UNB+UNOC:3'UNZ+1'",
		"a.edi": "NAD+MS+Name?+Co'",
	}
	ids := make(map[string]string)
	for _, source := range []string{"b.edi", "a.edi"} {
		doc, err := edifact.Convert(sources[source])
		require.NoError(t, err)

		outcome, err := s.Write(ctx, &sink.Document{
			Source:   source,
			SHA256:   "00ff",
			Encoding: "utf-8",
			Segments: 1,
			XML:      doc,
		})
		require.NoError(t, err)
		assert.True(t, outcome.Written)

		_, err = uuid.Parse(outcome.Location)
		require.NoError(t, err, "location should be a UUID")
		ids[source] = outcome.Location
	}

	docs, err := s.Documents(ctx, runID)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "a.edi", docs[0].Source)
	assert.Equal(t, ids["a.edi"], docs[0].ID)
	assert.Equal(t, "b.edi", docs[1].Source)
	for _, d := range docs {
		assert.Equal(t, runID, d.RunID)
		assert.Equal(t, "00ff", d.SHA256)
		assert.False(t, d.ConvertedAt.IsZero())

		xmlDoc := etree.NewDocument()
		require.NoError(t, xmlDoc.ReadFromString(d.XML))
		assert.Equal(t, "edifact", xmlDoc.Root().Tag)
	}

	other, err := s.Documents(ctx, "another-run")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Write(ctx, &sink.Document{})
	require.ErrorIs(t, err, sink.ErrClosed)
}

func TestSQLiteSink_ReopenKeepsRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "edixml.db")

	first, err := sink.OpenSQLite(dbPath, "run-1")
	require.NoError(t, err)
	_, err = first.Write(ctx, &sink.Document{Source: "x.edi", XML: sampleXML})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sink.OpenSQLite(dbPath, "run-2")
	require.NoError(t, err)
	defer second.Close()

	docs, err := second.Documents(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, sampleXML, docs[0].XML)
}
