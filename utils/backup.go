package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var backupNamePattern = regexp.MustCompile(`^backup-\d{8}-\d{6}-[a-f0-9]{8}\.json$`)

var ErrInvalidBackupName = errors.New("invalid backup name")

// BackupFile describes one snapshot on disk
type BackupFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupSnapshot is the document written to disk
type BackupSnapshot struct {
	CreatedAt time.Time                           `json:"created_at"`
	Tables    map[string][]map[string]interface{} `json:"tables"`
}

// CreateBackup dumps every table of tables into a JSON file in dir and returns its name
func CreateBackup(db *gorm.DB, tables []interface{}, dir string) (*BackupFile, error) {
	snapshot := BackupSnapshot{
		CreatedAt: time.Now(),
		Tables:    make(map[string][]map[string]interface{}, len(tables)),
	}

	for _, model := range tables {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		var rows []map[string]interface{}
		if err := db.Model(model).Unscoped().Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("dump %s: %w", stmt.Schema.Table, err)
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		snapshot.Tables[stmt.Schema.Table] = rows
	}

	data, err := sonic.ConfigStd.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("backup-%s-%s.json", snapshot.CreatedAt.Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return nil, err
	}

	log.Printf("[BACKUP] Wrote %s (%d tables, %d bytes)", name, len(snapshot.Tables), len(data))
	return &BackupFile{Name: name, Size: int64(len(data)), CreatedAt: snapshot.CreatedAt}, nil
}

// ListBackups returns snapshots in dir, newest first
func ListBackups(dir string) ([]BackupFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupFile{}, nil
		}
		return nil, err
	}

	files := make([]BackupFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !backupNamePattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, BackupFile{Name: e.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// BackupPath resolves a snapshot name inside dir, rejecting anything that is not a backup name
func BackupPath(dir, name string) (string, error) {
	if !backupNamePattern.MatchString(name) || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidBackupName
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
