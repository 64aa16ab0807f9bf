package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents a registered user. Social handles and images live on the
// user row as JSON documents so that every mutation is a single-row write.
type User struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Email         string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string        `gorm:"size:255;not null" json:"-"`
	Name          string        `gorm:"size:255" json:"name"`
	SocialHandles SocialHandles `gorm:"type:jsonb;not null" json:"socialHandles"`
	Images        Images        `gorm:"type:jsonb;not null" json:"images"`
	Version       int64         `gorm:"not null;default:1" json:"-"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// SocialHandle links a user to an account on an external platform
type SocialHandle struct {
	Platform string    `json:"platform"`
	Handle   string    `json:"handle"`
	AddedAt  time.Time `json:"addedAt"`
}

// Image references an uploaded file by its public URL
type Image struct {
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// SocialHandles is stored as a JSON array, at most one entry per platform.
type SocialHandles []SocialHandle

// Upsert overwrites the entry for platform in place, or appends a new one.
func (s *SocialHandles) Upsert(platform, handle string, now time.Time) {
	for i := range *s {
		if (*s)[i].Platform == platform {
			(*s)[i].Handle = handle
			(*s)[i].AddedAt = now
			return
		}
	}
	*s = append(*s, SocialHandle{Platform: platform, Handle: handle, AddedAt: now})
}

// Remove drops the entry for platform. It reports whether anything changed.
func (s *SocialHandles) Remove(platform string) bool {
	for i := range *s {
		if (*s)[i].Platform == platform {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (s SocialHandles) Value() (driver.Value, error) {
	return marshalJSONColumn(s)
}

// Scan implements sql.Scanner
func (s *SocialHandles) Scan(src interface{}) error {
	return unmarshalJSONColumn(src, s)
}

// Images is stored as a JSON array in upload order.
type Images []Image

// Append adds one entry per url, all stamped with the same time.
func (im *Images) Append(now time.Time, urls ...string) {
	for _, u := range urls {
		*im = append(*im, Image{URL: u, UploadedAt: now})
	}
}

// Remove drops the entry with the given url. It reports whether anything changed.
func (im *Images) Remove(url string) bool {
	for i := range *im {
		if (*im)[i].URL == url {
			*im = append((*im)[:i], (*im)[i+1:]...)
			return true
		}
	}
	return false
}

// URLs returns the url of every image, in order.
func (im Images) URLs() []string {
	urls := make([]string, 0, len(im))
	for _, img := range im {
		urls = append(urls, img.URL)
	}
	return urls
}

// Value implements driver.Valuer
func (im Images) Value() (driver.Value, error) {
	return marshalJSONColumn(im)
}

// Scan implements sql.Scanner
func (im *Images) Scan(src interface{}) error {
	return unmarshalJSONColumn(src, im)
}

func marshalJSONColumn(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// nil slices are stored as [] rather than null
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func unmarshalJSONColumn(src interface{}, dst interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
