package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecognizer struct {
	err   error
	calls int
}

func (s *stubRecognizer) Recognize(_ context.Context, doc []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("text of %s", doc), nil
}

func TestReadDocumentsJoinsWithSeparator(t *testing.T) {
	r := &stubRecognizer{}
	text, err := ReadDocuments(context.Background(), r, [][]byte{[]byte("a"), []byte("b")}, nil)

	require.NoError(t, err)
	assert.Equal(t, "text of a\n\n--- Next Document ---\n\ntext of b", text)
	assert.Equal(t, 2, r.calls)
}

func TestReadDocumentsSingle(t *testing.T) {
	text, err := ReadDocuments(context.Background(), &stubRecognizer{}, [][]byte{[]byte("a")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text of a", text)
}

func TestReadDocumentsEmpty(t *testing.T) {
	text, err := ReadDocuments(context.Background(), &stubRecognizer{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestReadDocumentsProgress(t *testing.T) {
	var fractions []float64
	_, err := ReadDocuments(context.Background(), &stubRecognizer{},
		[][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")},
		func(f float64) { fractions = append(fractions, f) })

	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, fractions)
}

func TestReadDocumentsRecognizerError(t *testing.T) {
	r := &stubRecognizer{err: errors.New("unreadable scan")}
	_, err := ReadDocuments(context.Background(), r, [][]byte{[]byte("a")}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 1 of 1")
}

func TestReadDocumentsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadDocuments(ctx, &stubRecognizer{}, [][]byte{[]byte("a")}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
