// Package task runs one conversion task end to end: download, decode,
// extract, attach images, archive the outcome.
package task

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/questionhub/document-service/internal/document"
	"github.com/questionhub/document-service/internal/extract"
	"github.com/questionhub/document-service/internal/queue"
)

const imageBusinessType = "question_image"

// Downloader fetches a task document to a local path.
type Downloader interface {
	Fetch(ctx context.Context, fileURL string) (string, error)
	Cleanup(path string)
}

// ImageUploader pushes referenced images to the asset store and rewrites
// their references.
type ImageUploader interface {
	ProcessImages(ctx context.Context, content, baseDir, businessType string) (string, []string, error)
}

// Archive persists task outcomes. Optional: a nil archive disables it.
type Archive interface {
	RecordCompleted(ctx context.Context, taskID, merchantID, fileID string, questionCount int) error
	RecordFailed(ctx context.Context, taskID, merchantID, fileID, errMsg string) error
}

// Pipeline implements queue.TaskHandler.
type Pipeline struct {
	downloader Downloader
	engine     *extract.Engine
	images     ImageUploader
	archive    Archive
	logger     zerolog.Logger
}

func NewPipeline(downloader Downloader, engine *extract.Engine, images ImageUploader, archive Archive, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		downloader: downloader,
		engine:     engine,
		images:     images,
		archive:    archive,
		logger:     logger.With().Str("component", "task_pipeline").Logger(),
	}
}

var _ queue.TaskHandler = (*Pipeline)(nil)

// Process converts one document into question records. Errors before
// extraction (download, unsupported format, decode) fail the task;
// extraction itself never fails, and zero extracted questions is a valid
// completed result.
func (p *Pipeline) Process(ctx context.Context, t queue.ConvertTask) ([]extract.QuestionRecord, error) {
	logger := p.logger.With().Str("task_id", t.TaskID).Logger()

	localPath, err := p.downloader.Fetch(ctx, t.FileURL)
	if err != nil {
		p.recordFailed(ctx, t, err)
		return nil, err
	}
	defer p.downloader.Cleanup(localPath)

	doc, err := document.Decode(localPath)
	if err != nil {
		p.recordFailed(ctx, t, err)
		return nil, err
	}

	var imageURLs []string
	fullText, paragraphs := document.Normalize(doc.Paragraphs)
	if doc.Converted && p.images != nil {
		// Converted content may reference images extracted next to the
		// document; upload them and re-normalize the rewritten content.
		rewritten, urls, err := p.images.ProcessImages(ctx, fullText, filepath.Dir(localPath), imageBusinessType)
		if err != nil {
			logger.Warn().Err(err).Msg("image processing failed, continuing without images")
		} else {
			fullText, paragraphs = document.NormalizeContent(rewritten)
			imageURLs = urls
		}
	}

	records := p.engine.Extract(fullText, paragraphs)
	for i := range records {
		records[i].Images = append(records[i].Images, imageURLs...)
	}

	p.recordCompleted(ctx, t, len(records))
	logger.Info().Int("questions", len(records)).Msg("document converted")
	return records, nil
}

// Archive writes are best effort: the result still reaches the queue even
// when Postgres is unavailable.
func (p *Pipeline) recordCompleted(ctx context.Context, t queue.ConvertTask, count int) {
	if p.archive == nil {
		return
	}
	if err := p.archive.RecordCompleted(ctx, t.TaskID, t.MerchantID, t.FileID, count); err != nil {
		p.logger.Warn().Err(err).Str("task_id", t.TaskID).Msg("task archive write failed")
	}
}

func (p *Pipeline) recordFailed(ctx context.Context, t queue.ConvertTask, cause error) {
	if p.archive == nil {
		return
	}
	msg := strings.TrimSpace(cause.Error())
	if err := p.archive.RecordFailed(ctx, t.TaskID, t.MerchantID, t.FileID, msg); err != nil {
		p.logger.Warn().Err(err).Str("task_id", t.TaskID).Msg("task archive write failed")
	}
}
