package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const (
	opLinkCreate     = "link.create"
	opLinkUpdate     = "link.update"
	opLinkDelete     = "link.delete"
	opFeedbackCreate = "feedback.create"
	opUserCreate     = "user.create"
)

// fileRecord is one line of the append-only journal.
type fileRecord struct {
	Op       string          `json:"op"`
	ID       string          `json:"id,omitempty"`
	Link     *ReviewLink     `json:"link,omitempty"`
	Patch    *LinkPatch      `json:"patch,omitempty"`
	Feedback *ReviewFeedback `json:"feedback,omitempty"`
	User     *User           `json:"user,omitempty"`
}

// FileStorage persists every mutation as a JSON line and serves reads from
// an in-memory index rebuilt from the journal on open. A mutation whose
// journal write fails is undone in the index.
type FileStorage struct {
	mu     sync.Mutex
	file   *os.File
	index  *MemoryStorage
	logger *zap.Logger
}

func NewFileStorage(p string, logger *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE, 0660)
	if err != nil {
		return nil, err
	}

	index, _ := CreateMemoryStorage()
	fs := &FileStorage{
		file:   file,
		index:  index,
		logger: logger,
	}

	if err := fs.replay(); err != nil {
		file.Close()
		return nil, err
	}

	return fs, nil
}

func (fs *FileStorage) replay() error {
	if _, err := fs.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	ctx := context.Background()
	scanner := bufio.NewScanner(fs.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lines := 0

	for scanner.Scan() {
		var rec fileRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return fmt.Errorf("failed to parse JSON line %d: %w", lines+1, err)
		}
		lines++

		switch rec.Op {
		case opLinkCreate:
			if rec.Link != nil {
				_, _ = fs.index.CreateLink(ctx, *rec.Link)
			}
		case opLinkUpdate:
			if rec.Patch != nil {
				_, _ = fs.index.UpdateLink(ctx, rec.ID, *rec.Patch)
			}
		case opLinkDelete:
			_, _ = fs.index.DeleteLink(ctx, rec.ID)
		case opFeedbackCreate:
			if rec.Feedback != nil {
				_, _ = fs.index.CreateFeedback(ctx, *rec.Feedback)
			}
		case opUserCreate:
			if rec.User != nil {
				_, _ = fs.index.CreateUser(ctx, *rec.User)
			}
		default:
			fs.logger.Warn("skipping unknown journal entry", zap.String("op", rec.Op))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	fs.logger.Info("file storage loaded", zap.Int("entries", lines))

	// further writes go to the end of the journal
	_, err := fs.file.Seek(0, io.SeekEnd)
	return err
}

func (fs *FileStorage) append(rec fileRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if _, err := fs.file.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return nil
}

func (fs *FileStorage) ListLinks(ctx context.Context) ([]ReviewLink, error) {
	return fs.index.ListLinks(ctx)
}

func (fs *FileStorage) FindLinkBySlug(ctx context.Context, slug string) (*ReviewLink, error) {
	return fs.index.FindLinkBySlug(ctx, slug)
}

func (fs *FileStorage) CreateLink(ctx context.Context, link ReviewLink) (*ReviewLink, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	created, err := fs.index.CreateLink(ctx, link)
	if err != nil {
		return nil, err
	}

	if err := fs.append(fileRecord{Op: opLinkCreate, Link: &link}); err != nil {
		_, _ = fs.index.DeleteLink(ctx, link.ID)
		return nil, err
	}

	return created, nil
}

func (fs *FileStorage) UpdateLink(ctx context.Context, id string, patch LinkPatch) (bool, error) {
	if patch.Empty() {
		return false, nil
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, ok := fs.index.linkByID(id)
	if !ok {
		return false, nil
	}

	updated, err := fs.index.UpdateLink(ctx, id, patch)
	if err != nil || !updated {
		return updated, err
	}

	if err := fs.append(fileRecord{Op: opLinkUpdate, ID: id, Patch: &patch}); err != nil {
		fs.index.putLink(prev)
		return false, err
	}

	return true, nil
}

func (fs *FileStorage) DeleteLink(ctx context.Context, id string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, ok := fs.index.linkByID(id)
	if !ok {
		return false, nil
	}

	deleted, err := fs.index.DeleteLink(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if err := fs.append(fileRecord{Op: opLinkDelete, ID: id}); err != nil {
		fs.index.putLink(prev)
		return false, err
	}

	return true, nil
}

func (fs *FileStorage) CreateFeedback(ctx context.Context, f ReviewFeedback) (*ReviewFeedback, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.append(fileRecord{Op: opFeedbackCreate, Feedback: &f}); err != nil {
		return nil, err
	}

	return fs.index.CreateFeedback(ctx, f)
}

func (fs *FileStorage) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return fs.index.FindUserByUsername(ctx, username)
}

func (fs *FileStorage) CreateUser(ctx context.Context, u User) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	created, err := fs.index.CreateUser(ctx, u)
	if err != nil || !created {
		return created, err
	}

	if err := fs.append(fileRecord{Op: opUserCreate, User: &u}); err != nil {
		fs.index.removeUser(u.Username)
		return false, err
	}

	return true, nil
}

func (fs *FileStorage) PingContext(c context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, err := fs.file.Stat()
	return err
}

func (fs *FileStorage) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.file.Sync(); err != nil {
		return err
	}

	return fs.file.Close()
}
