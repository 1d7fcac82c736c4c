// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// UploadResult is returned from a successful file upload.
type UploadResult struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
	URL      string `json:"url"` // public retrieval URL for the vanity route
}

// FileDetails is returned from the file retrieval endpoint. SignedURL is
// minted fresh on every call; the metadata fields are stable.
type FileDetails struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimetype"`
	Size       int64  `json:"size"`
	CreatedAt  string `json:"created_at"`
	StorageKey string `json:"s3_key"`
	SignedURL  string `json:"signed_url"`
	ExpiresIn  int64  `json:"expires_in"` // seconds
}

// FileSummary is one row in list/query action results.
type FileSummary struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimetype"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// FileInfo is the detailed view returned by the info action.
type FileInfo struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
	SizeReadable string `json:"size_readable"`
	CreatedAt    string `json:"created_at"`
	StorageKey   string `json:"s3_key"`
	FileType     string `json:"file_type"`
}
