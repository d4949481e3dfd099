// Package file implements every persistence port on top of two JSON
// snapshot files. State is held in memory behind one RWMutex and
// flushed after every mutation with a temp-file rename, so a crash
// never leaves a half-written snapshot on disk.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pulse-backend/domain/core/entities"
	pkgerrors "pulse-backend/pkg/errors"

	"go.uber.org/zap"
)

const (
	appFileName   = "app.json"
	usersFileName = "users.json"
)

// appSnapshot is the on-disk shape of the content, graph, and
// notification state. Posts and notifications are stored newest first.
type appSnapshot struct {
	Posts         []*entities.Post         `json:"posts"`
	Comments      []*entities.Comment      `json:"comments"`
	Follows       []entities.FollowEdge    `json:"follows"`
	Notifications []*entities.Notification `json:"notifications"`
	IDCounter     int64                    `json:"idCounter"`
}

// Store is the file-backed persistence layer. One instance implements
// all of the persistence ports; the DI layer hands the same value out
// under each interface.
type Store struct {
	mu     sync.RWMutex
	logger *zap.Logger

	appPath   string
	usersPath string

	posts         []*entities.Post
	comments      []*entities.Comment
	follows       []entities.FollowEdge
	notifications []*entities.Notification
	idCounter     int64

	accounts []*entities.AuthUser
}

// NewStore loads (or initializes) the snapshot files under dataDir
func NewStore(dataDir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create data directory %s", dataDir)
	}

	s := &Store{
		logger:    logger,
		appPath:   filepath.Join(dataDir, appFileName),
		usersPath: filepath.Join(dataDir, usersFileName),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	logger.Info("file store loaded",
		zap.String("dataDir", dataDir),
		zap.Int("posts", len(s.posts)),
		zap.Int("users", len(s.accounts)),
	)
	return s, nil
}

func (s *Store) load() error {
	var snap appSnapshot
	if err := readJSONFile(s.appPath, &snap); err != nil {
		return err
	}
	s.posts = snap.Posts
	s.comments = snap.Comments
	s.follows = snap.Follows
	s.notifications = snap.Notifications
	s.idCounter = snap.IDCounter

	if err := readJSONFile(s.usersPath, &s.accounts); err != nil {
		return err
	}
	return nil
}

// flushApp writes the app snapshot. Callers must hold the write lock.
func (s *Store) flushApp() error {
	snap := appSnapshot{
		Posts:         s.posts,
		Comments:      s.comments,
		Follows:       s.follows,
		Notifications: s.notifications,
		IDCounter:     s.idCounter,
	}
	if snap.Posts == nil {
		snap.Posts = []*entities.Post{}
	}
	if snap.Comments == nil {
		snap.Comments = []*entities.Comment{}
	}
	if snap.Follows == nil {
		snap.Follows = []entities.FollowEdge{}
	}
	if snap.Notifications == nil {
		snap.Notifications = []*entities.Notification{}
	}
	return writeJSONFile(s.appPath, snap)
}

// flushUsers writes the account snapshot. Callers must hold the write lock.
func (s *Store) flushUsers() error {
	accounts := s.accounts
	if accounts == nil {
		accounts = []*entities.AuthUser{}
	}
	return writeJSONFile(s.usersPath, accounts)
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read %s", path)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode snapshot")
	}

	tmp := fmt.Sprintf("%s.tmp", path)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return pkgerrors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
