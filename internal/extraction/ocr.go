package extraction

import (
	"context"
	"fmt"
	"strings"
)

// documentSeparator joins the text of consecutive scanned documents so a
// multi-page intake reads as one note stream downstream.
const documentSeparator = "\n\n--- Next Document ---\n\n"

// TextRecognizer converts one scanned document into plain text. Implemented
// by whatever OCR backend the deployment uses; tests stub it.
type TextRecognizer interface {
	Recognize(ctx context.Context, document []byte) (string, error)
}

// ReadDocuments runs the recognizer over each document in order and joins
// the results with the document separator. progress, if non-nil, is called
// after each document with the completed fraction in (0, 1]. A recognizer
// error aborts the batch; partial text is not returned.
func ReadDocuments(ctx context.Context, r TextRecognizer, documents [][]byte, progress func(float64)) (string, error) {
	if len(documents) == 0 {
		return "", nil
	}

	texts := make([]string, 0, len(documents))
	for i, doc := range documents {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("extraction: document read cancelled: %w", err)
		}
		text, err := r.Recognize(ctx, doc)
		if err != nil {
			return "", fmt.Errorf("extraction: recognizing document %d of %d: %w", i+1, len(documents), err)
		}
		texts = append(texts, strings.TrimSpace(text))
		if progress != nil {
			progress(float64(i+1) / float64(len(documents)))
		}
	}
	return strings.Join(texts, documentSeparator), nil
}
