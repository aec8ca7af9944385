package drive

import "time"

// Item is a file or folder in a drive.
type Item struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Size                 *int64         `json:"size,omitempty"`
	WebURL               string         `json:"webUrl,omitempty"`
	CreatedDateTime      *time.Time     `json:"createdDateTime,omitempty"`
	LastModifiedDateTime *time.Time     `json:"lastModifiedDateTime,omitempty"`
	Folder               *FolderFacet   `json:"folder,omitempty"`
	File                 *FileFacet     `json:"file,omitempty"`
	ParentReference      *ItemReference `json:"parentReference,omitempty"`
}

// IsFolder reports whether the item carries the folder facet.
func (i Item) IsFolder() bool { return i.Folder != nil }

// FolderFacet marks an item as a folder.
type FolderFacet struct {
	ChildCount *int `json:"childCount,omitempty"`
}

// FileFacet marks an item as a file.
type FileFacet struct {
	MimeType string `json:"mimeType,omitempty"`
}

// ItemReference locates an item's parent.
type ItemReference struct {
	DriveID string `json:"driveId,omitempty"`
	ID      string `json:"id,omitempty"`
	Path    string `json:"path,omitempty"`
}
