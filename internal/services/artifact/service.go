package artifact

import (
	"context"
	"fmt"
	"mime"
	"net/url"

	"github.com/sirupsen/logrus"

	"rmap/internal/domain"
)

const versionPath = "/api/get-version/"

// Service retrieves artifacts of one expected media type.
type Service struct {
	transport   domain.Transport
	contentType string // e.g. application/pdf
}

func New(transport domain.Transport, contentType string) *Service {
	return &Service{transport: transport, contentType: contentType}
}

var _ domain.ArtifactService = (*Service)(nil)

// Retrieve fetches the artifact for token. The token is capability-bearing,
// so it goes into the URL path but never into logs.
func (s *Service) Retrieve(ctx context.Context, token domain.LinkToken) (domain.Artifact, error) {
	const op = "services.artifact.Retrieve"

	status, contentType, body, err := s.transport.Fetch(ctx, versionPath+url.PathEscape(string(token)))
	if err != nil {
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.Artifact{}, err
	}
	if status/100 != 2 {
		err := fmt.Errorf("%w: status %d", domain.ErrArtifact, status)
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.Artifact{}, err
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != s.contentType {
		err := fmt.Errorf("%w: content type %q, want %q", domain.ErrArtifact, contentType, s.contentType)
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.Artifact{}, err
	}

	logrus.Infof("artifact received: %s, %d bytes", mediaType, len(body))
	return domain.Artifact{ContentType: mediaType, Bytes: body}, nil
}
