package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/loader"
	docloader "github.com/causamap/backend/pkg/loader/doc"
	"github.com/causamap/backend/pkg/loader/ocr"
	pdfloader "github.com/causamap/backend/pkg/loader/pdf"
	s3loader "github.com/causamap/backend/pkg/loader/s3"
	webloader "github.com/causamap/backend/pkg/loader/web"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessExtractMessage extracts the plain text of one uploaded document and
// stores it on the document row. When the last document of a session reaches
// a terminal state, graph inference is queued.
//
// Documents whose extracted text is too short to carry any usable content are
// marked failed without retrying; everything else that errors is returned to
// the caller for redelivery.
func ProcessExtractMessage(
	ctx context.Context,
	msgBody []byte,
	ch *amqp091.Channel,
	storeClient store.Storage,
	s3Client *s3.Client,
	aiClient ai.GraphAIClient,
) error {
	var msg ExtractJobMsg
	if err := json.Unmarshal(msgBody, &msg); err != nil {
		logger.Error("[Extract] Invalid message, dropping", "err", err)
		return nil
	}
	if msg.SessionID == "" || msg.DocumentID == "" {
		logger.Error("[Extract] Message misses session or document id, dropping")
		return nil
	}

	doc, err := storeClient.GetDocument(ctx, msg.SessionID, msg.DocumentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("[Extract] Document no longer exists, dropping",
				"session_id", msg.SessionID,
				"document_id", msg.DocumentID,
			)
			return nil
		}
		return fmt.Errorf("failed to load document: %w", err)
	}

	logger.Info("[Extract] Processing document",
		"session_id", doc.SessionID,
		"document_id", doc.ID,
		"file_type", doc.FileType,
	)

	if err := storeClient.UpdateDocumentStatus(ctx, doc.ID, store.DocumentStatusExtracting, ""); err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	text, err := extractDocumentText(ctx, doc, s3Client, aiClient)
	if err != nil {
		_ = storeClient.UpdateDocumentStatus(ctx, doc.ID, store.DocumentStatusFailed, err.Error())
		if progressErr := checkSessionProgress(ctx, ch, storeClient, doc.SessionID); progressErr != nil {
			logger.Error("[Extract] Failed to advance session", "session_id", doc.SessionID, "err", progressErr)
		}
		return fmt.Errorf("failed to extract text from document %s: %w", doc.ID, err)
	}

	text = util.SanitizePostgresText(text)
	minChars := int(util.GetEnvNumeric("EXTRACT_MIN_CHARS", 200))
	if util.MeaningfulChars(text) < minChars {
		logger.Warn("[Extract] Document carries no usable text",
			"session_id", doc.SessionID,
			"document_id", doc.ID,
			"chars", util.MeaningfulChars(text),
		)
		_ = storeClient.UpdateDocumentStatus(ctx, doc.ID, store.DocumentStatusFailed, "document contains no usable text")
		return checkSessionProgress(ctx, ch, storeClient, doc.SessionID)
	}

	if err := storeClient.SetDocumentText(ctx, doc.ID, text); err != nil {
		return fmt.Errorf("failed to store document text: %w", err)
	}
	if err := storeClient.UpdateDocumentStatus(ctx, doc.ID, store.DocumentStatusReady, ""); err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	logger.Info("[Extract] Document ready",
		"session_id", doc.SessionID,
		"document_id", doc.ID,
		"chars", len(text),
	)

	return checkSessionProgress(ctx, ch, storeClient, doc.SessionID)
}

// extractDocumentText runs the format-specific loader chain for a document.
// Scanned PDFs fall back to page-image transcription inside the PDF loader.
func extractDocumentText(
	ctx context.Context,
	doc *store.Document,
	s3Client *s3.Client,
	aiClient ai.GraphAIClient,
) (string, error) {
	bucket := util.GetEnv("AWS_BUCKET")
	objectLoader := s3loader.NewS3SourceFileLoaderWithClient(bucket, s3Client)

	params := loader.NewSourceFileParams{
		ID:       doc.ID,
		FilePath: doc.ObjectKey,
	}

	var file loader.SourceFile
	switch doc.FileType {
	case string(loader.SourceFileTypeText):
		params.Loader = objectLoader
		file = loader.NewTextSourceFile(params)
	case string(loader.SourceFileTypeDoc):
		params.Loader = docloader.NewDocSourceLoader(objectLoader)
		file = loader.NewDocSourceFile(params)
	case string(loader.SourceFileTypePDF):
		ocrLoader := ocr.NewOCRSourceLoader(ocr.NewOCRSourceLoaderParams{
			Loader:   objectLoader,
			AIClient: aiClient,
			Parallel: int(util.GetEnvNumeric("OCR_PARALLEL_PAGES", 4)),
		})
		params.Loader = pdfloader.NewPDFOcrSourceLoader(objectLoader, ocrLoader)
		file = loader.NewPDFSourceFile(params)
	case string(loader.SourceFileTypeWeb):
		webLoader := webloader.NewWebSourceLoader()
		params.Loader = &webLoader
		file = loader.NewWebSourceFile(params)
	default:
		return "", fmt.Errorf("unsupported file type %q", doc.FileType)
	}

	text, err := file.GetText(ctx)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// checkSessionProgress moves the session forward once all documents reached a
// terminal state, queueing graph inference when at least one document is
// ready.
func checkSessionProgress(
	ctx context.Context,
	ch *amqp091.Channel,
	storeClient store.Storage,
	sessionID string,
) error {
	docs, err := storeClient.ListDocuments(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to list session documents: %w", err)
	}

	status, queueGraph := resolveSessionProgress(docs)
	if status == "" {
		return nil
	}

	if err := storeClient.UpdateSessionStatus(ctx, sessionID, status); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	if !queueGraph {
		return nil
	}

	msgBytes, err := json.Marshal(GraphJobMsg{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to marshal graph message: %w", err)
	}
	if err := PublishFIFO(ch, GraphQueue, msgBytes); err != nil {
		return fmt.Errorf("failed to queue graph inference: %w", err)
	}

	logger.Info("[Extract] All documents processed, graph inference queued", "session_id", sessionID)
	return nil
}
