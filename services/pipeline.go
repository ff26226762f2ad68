package services

import (
	"context"
	"log"
)

// Các interface tách rời để test thay fake cho từng bước.
type AudioAcquirer interface {
	Acquire(ctx context.Context, videoURL string) (*AudioArtifact, error)
	Release(artifact *AudioArtifact) error
}

type AudioTranscriber interface {
	Transcribe(ctx context.Context, artifact *AudioArtifact) (string, error)
}

type QuizGenerator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

// QuizPipeline là entry point duy nhất mà tầng API dùng để tạo quiz.
type QuizPipeline interface {
	Run(ctx context.Context, videoURL string) (*QuizDraft, error)
}

// PipelineService nối các bước: tải audio → phiên âm → sinh quiz → chuẩn hoá.
type PipelineService struct {
	acquirer    AudioAcquirer
	transcriber AudioTranscriber
	generator   QuizGenerator
}

func NewPipelineService(acquirer AudioAcquirer, transcriber AudioTranscriber, generator QuizGenerator) *PipelineService {
	return &PipelineService{
		acquirer:    acquirer,
		transcriber: transcriber,
		generator:   generator,
	}
}

// Run chạy pipeline tuần tự, không retry; lỗi ở bước nào trả về nguyên vẹn lỗi bước đó.
// Artifact audio được release đúng một lần trên mọi đường thoát sau khi Acquire
// thành công, kể cả khi bước sau lỗi hay context bị huỷ.
func (p *PipelineService) Run(ctx context.Context, videoURL string) (*QuizDraft, error) {
	artifact, err := p.acquirer.Acquire(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := p.acquirer.Release(artifact); err != nil {
			log.Printf("Không xoá được artifact %s: %v", artifact.Path, err)
		}
	}()

	transcript, err := p.transcriber.Transcribe(ctx, artifact)
	if err != nil {
		return nil, err
	}

	rawText, err := p.generator.Generate(ctx, transcript)
	if err != nil {
		return nil, err
	}

	draft, err := ParseQuizResponse(rawText)
	if err != nil {
		return nil, err
	}

	// Gắn transcript để caller lưu luôn, khỏi phiên âm lại
	draft.Transcript = transcript
	draft.DurationSec = artifact.DurationSec
	return draft, nil
}
