package osproto_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/osproto"
)

func TestPath(t *testing.T) {
	p := osproto.Root().Field("server").Field("addresses").Index(0).Field("addr")
	assert.Equal(t, "server.addresses[0].addr", p.String())
	assert.Equal(t, "metadata[\"a.b\"]", osproto.Root().Field("metadata").Key("a.b").String())
	assert.Equal(t, "", osproto.Root().String())
	assert.Equal(t, "servers[1]", osproto.JoinPath("servers", "[1]"))
}

func TestIssues(t *testing.T) {
	iss := osproto.Issues{
		osproto.IssueAt(osproto.Root().Field("id"), osproto.CodeMissingField, map[string]any{"field": "ID"}),
		osproto.IssueAt(osproto.Root().Index(2), osproto.CodeTypeMismatch, nil),
	}

	t.Run("Should match sentinels", func(t *testing.T) {
		var err error = iss
		assert.True(t, errors.Is(err, osproto.ErrMissingField))
		assert.True(t, errors.Is(err, osproto.ErrTypeMismatch))
		assert.False(t, errors.Is(err, osproto.ErrUnexpectedEnvelope))
		assert.True(t, errors.Is(fmt.Errorf("decode: %w", err), osproto.ErrMissingField))
		assert.True(t, iss.Has(osproto.CodeTypeMismatch))
	})

	t.Run("Should rebase paths", func(t *testing.T) {
		under := iss.Under("server")
		assert.Equal(t, "server.id", under[0].Path)
		assert.Equal(t, "server[2]", under[1].Path)
		assert.Equal(t, "id", iss[0].Path, "Under copies")
	})

	t.Run("Should summarize the first issues", func(t *testing.T) {
		many := append(osproto.Issues{}, iss...)
		many = append(many, iss...)
		msg := many.Error()
		assert.Contains(t, msg, "missing_field at id")
		assert.Contains(t, msg, "(total 4)")
	})

	t.Run("Should wrap foreign errors as malformed values", func(t *testing.T) {
		got := osproto.ToIssues("created", errors.New("bad"))
		require.Len(t, got, 1)
		assert.Equal(t, osproto.CodeMalformedValue, got[0].Code)
		assert.Equal(t, "created", got[0].Path)
		assert.Nil(t, osproto.ToIssues("x", nil))
	})
}

func TestDecodeOpt(t *testing.T) {
	var seen []osproto.Issue
	ctx := osproto.DecodeOpt{
		Microversion: osproto.MV(2, 60),
		FailFast:     true,
		OnIssue:      func(it osproto.Issue) { seen = append(seen, it) },
	}.Apply(context.Background())

	assert.Equal(t, osproto.MV(2, 60), osproto.MicroversionFrom(ctx))
	assert.True(t, osproto.IsFailFast(ctx))
	assert.Equal(t, osproto.Latest, osproto.MicroversionFrom(context.Background()))

	t.Run("Should rebase warnings through nested scopes", func(t *testing.T) {
		inner := osproto.ScopeIssues(osproto.ScopeIssues(ctx, "server"), "status")
		osproto.ReportIssue(inner, osproto.Issue{Code: osproto.CodeUnknownAlias})
		require.Len(t, seen, 1)
		assert.Equal(t, "server.status", seen[0].Path)
	})

	t.Run("Should ignore reports without a sink", func(t *testing.T) {
		assert.NotPanics(t, func() {
			osproto.ReportIssue(context.Background(), osproto.Issue{Code: osproto.CodeUnknownAlias})
		})
	})
}
