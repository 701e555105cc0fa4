package consts

// Tables
const (
	DBDownloads = "downloads"
)

// Downloads
const (
	QDLID          = "id"
	QDLURL         = "url"
	QDLTitle       = "title"
	QDLLabel       = "label"
	QDLFilePath    = "file_path"
	QDLFileSize    = "file_size"
	QDLCompletedAt = "completed_at"
)
