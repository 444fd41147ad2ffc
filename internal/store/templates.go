package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// templateParseLimit bounds concurrent template reads.
const templateParseLimit = 8

// tasksLockName guards every template rewrite.
const tasksLockName = "tasks"

// LoadTemplates reads every template under the tasks directory, sorted by
// path. Files that cannot be parsed are skipped with a warning. A missing
// tasks directory yields no templates.
func (s *FileStore) LoadTemplates(ctx context.Context) ([]*domain.Template, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)

	var paths []string
	err := filepath.WalkDir(s.tasksDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.tasksDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), constants.TemplateExtension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.Template{}, nil
		}
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	results := make([]*domain.Template, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(templateParseLimit)

	for i, path := range paths {
		g.Go(func() error {
			if err := checkContext(gctx); err != nil {
				return err
			}
			tpl, err := s.readTemplate(path)
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("skipping unreadable template")
				return nil
			}
			results[i] = tpl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	templates := make([]*domain.Template, 0, len(results))
	for _, tpl := range results {
		if tpl != nil {
			templates = append(templates, tpl)
		}
	}
	slices.SortFunc(templates, func(a, b *domain.Template) int {
		return strings.Compare(a.Path, b.Path)
	})
	return templates, nil
}

// readTemplate parses one template file.
func (s *FileStore) readTemplate(path string) (*domain.Template, error) {
	content, err := os.ReadFile(path) //#nosec G304 -- path comes from walking the tasks directory
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(s.tasksDir, path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template path: %w", err)
	}

	base := filepath.Base(path)
	tpl := &domain.Template{
		Path:             filepath.ToSlash(rel),
		Name:             strings.TrimSuffix(base, filepath.Ext(base)),
		IsRoutine:        parseBool(doc.str(keyRoutine)),
		RoutineType:      domain.RoutineType(strings.ToLower(doc.str(keyRoutineType))),
		RoutineStart:     dateOnly(doc.str(keyRoutineStart)),
		RoutineEnd:       dateOnly(doc.str(keyRoutineEnd)),
		ScheduledTime:    doc.str(keyScheduledTime),
		Weekdays:         parseWeekdays(doc.list(keyWeekdays)),
		TargetDate:       dateOnly(doc.str(keyTargetDate)),
		Project:          doc.str(keyProject),
		CreatedDate:      dateOnly(doc.str(keyCreated)),
		RoutineRemovedOn: dateOnly(doc.str(keyRoutineRemovedOn)),
	}
	if !tpl.RoutineType.IsValid() {
		tpl.RoutineType = domain.RoutineDaily
	}
	if tpl.IsRoutine && tpl.RoutineType == domain.RoutineNone {
		tpl.RoutineType = domain.RoutineDaily
	}
	if tpl.CreatedDate == "" {
		if info, statErr := os.Stat(path); statErr == nil {
			tpl.CreatedDate = clock.DateKey(info.ModTime().In(s.loc))
		}
	}
	return tpl, nil
}

// SetTargetDate rewrites the target date of the template at path.
func (s *FileStore) SetTargetDate(ctx context.Context, path, date string) error {
	return s.rewriteTemplate(ctx, path, func(doc *document) {
		doc.setString(keyTargetDate, date)
	})
}

// SetRoutine writes a routine configuration onto the template at path.
func (s *FileStore) SetRoutine(ctx context.Context, path string, cfg domain.RoutineConfig) error {
	return s.rewriteTemplate(ctx, path, func(doc *document) {
		doc.setBool(keyRoutine, true)
		doc.setString(keyRoutineType, string(cfg.RoutineType))
		doc.setString(keyScheduledTime, cfg.ScheduledTime)
		doc.setString(keyRoutineStart, cfg.Start)
		doc.setString(keyRoutineEnd, cfg.End)
		days := make([]int, 0, len(cfg.Weekdays))
		for _, d := range cfg.Weekdays {
			days = append(days, int(d))
		}
		doc.setInts(keyWeekdays, days)
		doc.remove(keyRoutineRemovedOn)
	})
}

// ClearRoutine turns the template at path into a one-off task, recording
// removedOn so the task stays visible on that date.
func (s *FileStore) ClearRoutine(ctx context.Context, path, removedOn string) error {
	return s.rewriteTemplate(ctx, path, func(doc *document) {
		doc.setBool(keyRoutine, false)
		doc.setString(keyRoutineRemovedOn, removedOn)
	})
}

// DeleteTemplate removes the template file at path.
func (s *FileStore) DeleteTemplate(ctx context.Context, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	full, err := s.templateFile(path)
	if err != nil {
		return err
	}

	return s.withLock(ctx, filepath.Join(s.root, tasksLockName), func() error {
		if err := os.Remove(full); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to delete template '%s': %w", path, dperrors.ErrTemplateNotFound)
			}
			return fmt.Errorf("failed to delete template '%s': %w", path, err)
		}
		return nil
	})
}

func (s *FileStore) rewriteTemplate(ctx context.Context, path string, edit func(*document)) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	full, err := s.templateFile(path)
	if err != nil {
		return err
	}

	return s.withLock(ctx, filepath.Join(s.root, tasksLockName), func() error {
		content, err := os.ReadFile(full) //#nosec G304 -- path validated by templateFile
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to update template '%s': %w", path, dperrors.ErrTemplateNotFound)
			}
			return fmt.Errorf("failed to update template '%s': %w", path, err)
		}

		doc, err := parseDocument(content)
		if err != nil {
			return fmt.Errorf("failed to update template '%s': %w", path, err)
		}
		edit(doc)

		out, err := doc.encode()
		if err != nil {
			return fmt.Errorf("failed to update template '%s': %w", path, err)
		}
		if err := atomicWrite(full, out); err != nil {
			return fmt.Errorf("failed to update template '%s': %w", path, err)
		}

		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("template updated")
		return nil
	})
}

// templateFile resolves a template path inside the tasks directory.
func (s *FileStore) templateFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("template path %w", dperrors.ErrEmptyValue)
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("template path '%s': %w", path, dperrors.ErrPathTraversal)
	}
	return filepath.Join(s.tasksDir, clean), nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "on", "y":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// dateOnly keeps the YYYY-MM-DD part of a date or timestamp value.
func dateOnly(v string) string {
	if len(v) < len(clock.DateLayout) {
		return ""
	}
	d := v[:len(clock.DateLayout)]
	if _, err := time.Parse(clock.DateLayout, d); err != nil {
		return ""
	}
	return d
}

//nolint:gochecknoglobals // Read-only lookup table
var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// parseWeekdays accepts 0-6 (Sunday first) or English day names.
func parseWeekdays(values []string) []time.Weekday {
	var out []time.Weekday
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if n, err := strconv.Atoi(v); err == nil {
			if n >= 0 && n <= 6 && !slices.Contains(out, time.Weekday(n)) {
				out = append(out, time.Weekday(n))
			}
			continue
		}
		if len(v) >= 3 {
			if d, ok := weekdayNames[v[:3]]; ok && !slices.Contains(out, d) {
				out = append(out, d)
			}
		}
	}
	return out
}
