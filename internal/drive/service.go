package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	csvMimeType    = "text/csv"

	fileFields = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"
)

// Service is a read-only Google Drive client used to browse and pull
// snapshot exports.
type Service struct {
	srv *drive.Service
}

func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON([]byte(credentialsJSON), drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListFiles lists the files directly under the given folder.
func (s *Service) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return s.query(ctx, fmt.Sprintf("'%s' in parents and trashed=false", folderIDOrRoot(folderID)))
}

// ListSnapshots lists the snapshot CSV exports under the given folder,
// oldest name first. Exports from spreadsheet tools occasionally land with a
// generic mime type, so files whose name carries the .csv suffix count too.
func (s *Service) ListSnapshots(ctx context.Context, folderID string) ([]*File, error) {
	q := fmt.Sprintf(
		"'%s' in parents and trashed=false and (mimeType='%s' or name contains '.csv')",
		folderIDOrRoot(folderID), csvMimeType,
	)
	files, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}

	snapshots := files[:0]
	for _, f := range files {
		if f.MimeType == csvMimeType || strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			snapshots = append(snapshots, f)
		}
	}
	return snapshots, nil
}

// query pages through every result for the given Drive search expression.
func (s *Service) query(ctx context.Context, q string) ([]*File, error) {
	var files []*File

	call := s.srv.Files.List().Q(q).Fields(fileFields).OrderBy("name").Context(ctx)
	for {
		result, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list drive files: %w", err)
		}

		for _, f := range result.Files {
			files = append(files, &File{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				ModifiedTime: f.ModifiedTime,
				Size:         f.Size,
			})
		}

		if result.NextPageToken == "" {
			return files, nil
		}
		call = call.PageToken(result.NextPageToken)
	}
}

// DownloadFile streams the file's content into w.
func (s *Service) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// FindFolderByPath walks a slash-separated folder path from the Drive root
// and returns the ID of the final folder.
func (s *Service) FindFolderByPath(ctx context.Context, path string) (string, error) {
	currentID := "root"

	for _, folder := range strings.Split(path, "/") {
		if folder == "" {
			continue
		}

		q := fmt.Sprintf(
			"'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
			currentID, folder, folderMimeType,
		)
		result, err := s.srv.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("resolve folder %s: %w", folder, err)
		}
		if len(result.Files) == 0 {
			return "", fmt.Errorf("folder not found: %s", folder)
		}
		currentID = result.Files[0].Id
	}

	return currentID, nil
}

func folderIDOrRoot(folderID string) string {
	if folderID == "" {
		return "root"
	}
	return folderID
}
