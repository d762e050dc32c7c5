package entities

// BackupConfigID is the document key of the backup configuration.
const BackupConfigID = "backup"

// BackupConfig is the periodic backup schedule of the database.
type BackupConfig struct {
	ID string `json:"id" bson:"_id"`

	// Name is the name of the backup task.
	Name string `json:"name" bson:"name"`

	// FullBackupFrequency is the cron expression for full backups.
	FullBackupFrequency string `json:"full_backup_frequency" bson:"full_backup_frequency"`

	// IncrementalBackupFrequency is the cron expression for incremental backups.
	IncrementalBackupFrequency string `json:"incremental_backup_frequency" bson:"incremental_backup_frequency"`

	// FolderPath is the local directory backups are written to.
	FolderPath string `json:"folder_path" bson:"folder_path"`
}

// NewBackupConfig creates the default backup schedule writing into folder.
func NewBackupConfig(folder string) *BackupConfig {
	return &BackupConfig{
		ID:                         BackupConfigID,
		Name:                       "Backup",
		FullBackupFrequency:        "*/10 * * * *",
		IncrementalBackupFrequency: "0 2 * * *",
		FolderPath:                 folder,
	}
}
