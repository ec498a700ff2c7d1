package services

import (
	"context"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/gpxdoc"
	"gpx-route-editor/internal/platform/obs"
	"gpx-route-editor/internal/ports"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

// GpxFileService coordinates storage and point edits for named GPX files.
//
// Each edit loads the stored bytes, applies one editor operation to a fresh
// document and writes the result back with a single repository update.
// Nothing is written unless the whole edit succeeded.
type GpxFileService struct {
	Repo           ports.GpxFileRepository
	Editor         *PointEditor
	Events         ports.FileEventPublisher
	DefaultProfile string
}

func NewGpxFileService(repo ports.GpxFileRepository, editor *PointEditor, events ports.FileEventPublisher) *GpxFileService {
	return &GpxFileService{
		Repo:           repo,
		Editor:         editor,
		Events:         events,
		DefaultProfile: domain.DefaultProfile,
	}
}

// Upload stores an uploaded file under its base name. The file must carry a .gpx
// extension and parse as GPX; its bytes are kept verbatim.
func (s *GpxFileService) Upload(ctx context.Context, filename, profile string, data []byte) (_ *domain.GpxFile, err error) {
	defer obs.Time(ctx, "files.Upload")(&err)

	name := filepath.Base(strings.TrimSpace(filename))
	if !hasGpxExtension(name) {
		return nil, domain.ValidationErrorf("upload: %q is not a .gpx file", filename)
	}

	profile, err = s.profileOrDefault(profile)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	if _, err := gpxdoc.Parse(data); err != nil {
		return nil, fmt.Errorf("upload %q: %w", name, err)
	}

	f, err := s.Repo.Create(ctx, name, profile, data)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	s.publish(ctx, domain.FileCreated, f, "upload")
	return f, nil
}

// Create stores an empty document named name (".gpx" is appended when missing).
func (s *GpxFileService) Create(ctx context.Context, name, profile string) (_ *domain.GpxFile, err error) {
	defer obs.Time(ctx, "files.Create")(&err)

	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, domain.ValidationErrorf("create: invalid file name %q", name)
	}
	if !hasGpxExtension(name) {
		name += ".gpx"
	}

	profile, err = s.profileOrDefault(profile)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	data, err := gpxdoc.Serialize(gpxdoc.New())
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	f, err := s.Repo.Create(ctx, name, profile, data)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	s.publish(ctx, domain.FileCreated, f, "create")
	return f, nil
}

func (s *GpxFileService) Get(ctx context.Context, name string) (*domain.GpxFile, error) {
	f, err := s.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return f, nil
}

// Load fetches a file and parses its document.
func (s *GpxFileService) Load(ctx context.Context, name string) (*domain.GpxFile, *gpx.GPX, error) {
	f, err := s.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	doc, err := gpxdoc.Parse(f.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("load %q: %w", name, err)
	}
	return f, doc, nil
}

func (s *GpxFileService) List(ctx context.Context) ([]*domain.GpxFile, error) {
	files, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (s *GpxFileService) Delete(ctx context.Context, name string) error {
	if err := s.Repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	s.publish(ctx, domain.FileDeleted, &domain.GpxFile{Name: name}, "delete")
	return nil
}

func (s *GpxFileService) AddPoint(ctx context.Context, name string, p domain.Coordinates) (*domain.GpxFile, error) {
	return s.edit(ctx, name, "add_point", "", func(doc *gpx.GPX, profile string) error {
		return s.Editor.AddPoint(ctx, doc, profile, p)
	})
}

func (s *GpxFileService) AppendPoint(ctx context.Context, name string, p domain.Coordinates) (*domain.GpxFile, error) {
	return s.edit(ctx, name, "append_point", "", func(doc *gpx.GPX, profile string) error {
		return s.Editor.AppendPoint(ctx, doc, profile, p)
	})
}

func (s *GpxFileService) MovePoint(ctx context.Context, name string, from, to domain.Coordinates) (*domain.GpxFile, error) {
	return s.edit(ctx, name, "move_point", "", func(doc *gpx.GPX, profile string) error {
		return s.Editor.MovePoint(ctx, doc, profile, from, to)
	})
}

func (s *GpxFileService) RemovePoint(ctx context.Context, name string, p domain.Coordinates) (*domain.GpxFile, error) {
	return s.edit(ctx, name, "remove_point", "", func(doc *gpx.GPX, profile string) error {
		return s.Editor.RemovePoint(ctx, doc, profile, p)
	})
}

func (s *GpxFileService) SetStart(ctx context.Context, name string, p domain.Coordinates) (*domain.GpxFile, error) {
	return s.edit(ctx, name, "set_start", "", func(doc *gpx.GPX, profile string) error {
		return s.Editor.SetStart(ctx, doc, profile, p)
	})
}

func (s *GpxFileService) SetEnd(ctx context.Context, name string, p domain.Coordinates) (*domain.GpxFile, error) {
	return s.edit(ctx, name, "set_end", "", func(doc *gpx.GPX, profile string) error {
		return s.Editor.SetEnd(ctx, doc, profile, p)
	})
}

func (s *GpxFileService) UpdateProfile(ctx context.Context, name, profile string) (*domain.GpxFile, error) {
	if err := domain.ValidateProfile(profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.edit(ctx, name, "update_profile", profile, func(doc *gpx.GPX, _ string) error {
		return s.Editor.UpdateProfile(ctx, doc, profile)
	})
}

// edit runs fn against a freshly parsed copy of the stored document and persists the
// result. newProfile, when non-empty, is stored alongside the new bytes.
func (s *GpxFileService) edit(
	ctx context.Context,
	name, op, newProfile string,
	fn func(doc *gpx.GPX, profile string) error,
) (_ *domain.GpxFile, err error) {
	defer obs.Time(ctx, "files."+op)(&err)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		obs.PointEdits.WithLabelValues(op, outcome).Inc()
	}()

	f, doc, err := s.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := fn(doc, f.Profile); err != nil {
		return nil, fmt.Errorf("%s %q: %w", op, name, err)
	}

	data, err := gpxdoc.Serialize(doc)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", op, name, err)
	}

	if err := s.Repo.Update(ctx, f, data, newProfile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.FileUpdated, f, op)
	return f, nil
}

func (s *GpxFileService) profileOrDefault(profile string) (string, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = s.DefaultProfile
	}
	if profile == "" {
		profile = domain.DefaultProfile
	}
	if err := domain.ValidateProfile(profile); err != nil {
		return "", err
	}
	return profile, nil
}

// publish reports a committed change. Failures are logged and never undo the change.
func (s *GpxFileService) publish(ctx context.Context, kind string, f *domain.GpxFile, op string) {
	if s.Events == nil {
		return
	}

	ev := domain.FileEvent{Type: kind, Name: f.Name, Profile: f.Profile, Op: op, At: time.Now().UTC()}
	if err := s.Events.PublishFileEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "publish file event failed", "req_id", obs.RequestID(ctx), "type", kind, "name", f.Name, "err", err)
	}
}

func hasGpxExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".gpx")
}
