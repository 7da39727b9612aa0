package utils

import (
	"os"
	"path/filepath"
	"testing"

	"lms/models"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openBackupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:backup_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Setting{}, &models.Course{}))
	return db
}

func TestCreateAndListBackups(t *testing.T) {
	db := openBackupDB(t)
	dir := t.TempDir()

	require.NoError(t, db.Create(&models.Setting{Key: "site_name", Value: "Academy"}).Error)

	backup, err := CreateBackup(db, []interface{}{&models.Setting{}, &models.Course{}}, dir)
	require.NoError(t, err)
	assert.Regexp(t, `^backup-\d{8}-\d{6}-[a-f0-9]{8}\.json$`, backup.Name)
	assert.Positive(t, backup.Size)

	raw, err := os.ReadFile(filepath.Join(dir, backup.Name))
	require.NoError(t, err)

	var snapshot BackupSnapshot
	require.NoError(t, sonic.Unmarshal(raw, &snapshot))
	require.Len(t, snapshot.Tables["settings"], 1)
	assert.Equal(t, "Academy", snapshot.Tables["settings"][0]["value"])
	assert.NotNil(t, snapshot.Tables["courses"])
	assert.Empty(t, snapshot.Tables["courses"])

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	files, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, backup.Name, files[0].Name)

	path, err := BackupPath(dir, backup.Name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, backup.Name), path)
}

func TestListBackupsMissingDir(t *testing.T) {
	files, err := ListBackups(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestBackupPathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"../etc/passwd", "backup.json", "backup-20260101-000000-abcdef12.json/..", ""} {
		_, err := BackupPath(dir, name)
		assert.ErrorIs(t, err, ErrInvalidBackupName, name)
	}

	_, err := BackupPath(dir, "backup-20260101-000000-abcdef12.json")
	assert.True(t, os.IsNotExist(err))
}
