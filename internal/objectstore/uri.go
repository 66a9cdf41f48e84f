// Package objectstore reads objects from S3, Google Cloud Storage and Azure
// Blob Storage behind the domain.ObjectStore port.
package objectstore

import (
	"fmt"
	"net/url"
	"strings"
)

// URI schemes understood by ParseURI and Router.
const (
	SchemeS3    = "s3"
	SchemeGCS   = "gs"
	SchemeAzure = "az"
)

// Location is a parsed object URI.
type Location struct {
	Scheme string
	Bucket string // bucket, or container for Azure
	Key    string
}

func (l Location) String() string {
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// ParseURI parses an object URI.
//
// Supported formats:
//
//	s3://bucket/path/to/file
//	gs://bucket/path/to/file
//	az://container/path/to/file
//	abfss://container@account.dfs.core.windows.net/path/to/file   (scheme "az")
//	https://account.blob.core.windows.net/container/path/to/file  (scheme "az")
func ParseURI(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse object URI %q: %w", raw, err)
	}

	var loc Location
	switch u.Scheme {
	case SchemeS3, SchemeGCS, SchemeAzure:
		loc = Location{Scheme: u.Scheme, Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}

	case "abfss":
		// Go's url.Parse treats "container" as userinfo (before @).
		if u.User == nil {
			return Location{}, fmt.Errorf("abfss URI %q missing container@account component", raw)
		}
		loc = Location{Scheme: SchemeAzure, Bucket: u.User.Username(), Key: strings.TrimPrefix(u.Path, "/")}

	case "https":
		if !strings.Contains(u.Host, ".blob.core.windows.net") {
			return Location{}, fmt.Errorf("unrecognized HTTPS object host %q in %q", u.Host, raw)
		}
		container, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		loc = Location{Scheme: SchemeAzure, Bucket: container, Key: key}

	default:
		return Location{}, fmt.Errorf("unsupported object URI scheme %q in %q", u.Scheme, raw)
	}

	if loc.Bucket == "" {
		return Location{}, fmt.Errorf("empty bucket in object URI %q", raw)
	}
	if loc.Key == "" {
		return Location{}, fmt.Errorf("empty key in object URI %q", raw)
	}
	return loc, nil
}

// Default parts of WebsiteURL.
const (
	DefaultWebsiteScheme = "s3"
	DefaultWebsiteSite   = "s3-website-ap-southeast-2.amazonaws.com"
)

// WebsiteURL builds "{scheme}://{bucket}.{site}/{key}" for a bucket served as a
// static website. Empty scheme and site use the defaults above.
func WebsiteURL(bucket, key, scheme, site string) string {
	if scheme == "" {
		scheme = DefaultWebsiteScheme
	}
	if site == "" {
		site = DefaultWebsiteSite
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, bucket, site, strings.TrimPrefix(key, "/"))
}
