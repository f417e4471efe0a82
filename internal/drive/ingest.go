package drive

import (
	"context"
	"io"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/ingest"
)

// IngestService pulls a snapshot CSV out of Drive and feeds it to the
// snapshot ingester.
type IngestService struct {
	driveService *Service
	ingester     *ingest.Service
}

func NewIngestService(driveService *Service, ingester *ingest.Service) *IngestService {
	return &IngestService{
		driveService: driveService,
		ingester:     ingester,
	}
}

func (s *IngestService) IngestFile(ctx context.Context, fileID, fileName string) (*domain.IngestResult, error) {
	pr, pw := io.Pipe()
	go func() {
		err := s.driveService.DownloadFile(ctx, fileID, pw)
		pw.CloseWithError(err)
	}()

	if fileName == "" {
		fileName = fileID
	}

	return s.ingester.IngestReader(ctx, fileName, pr)
}
