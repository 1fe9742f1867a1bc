/*
Copyright © 2019 the GR4J authors.
This file is part of GR4J.

GR4J is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GR4J is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GR4J.  If not, see <http://www.gnu.org/licenses/>.
*/

package gr4jutil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// maxRetries is the number of times a failed HTTP download is retried.
const maxRetries = 4

// newBackOff returns the retry policy for HTTP downloads.
var newBackOff = func() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
}

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or blob storage location.
// If it is, it downloads the file and
// returns the path to the downloaded file. Otherwise, it returns
// the given path.
func maybeDownload(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	// If the path starts with one of these prefixes, download the file and
	// return the location it was downloaded to.
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(ctx, path, log)
	}

	if IsBlob(path) {
		return downloadBlob(ctx, path, log)
	}

	return path, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file. Requests that fail because of
// network or server errors are retried.
func downloadHTTP(ctx context.Context, fileURL string, log logrus.FieldLogger) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("gr4jutil: parsing download URL: %v", err)
	}
	// Prepare a temporary directory for the downloads.
	dir, err := ioutil.TempDir("", "gr4j")
	if err != nil {
		return "", fmt.Errorf("gr4jutil: failed creating temporary download directory: %v", err)
	}
	fname := filepath.Join(dir, path.Base(u.Path))

	log = log.WithField("url", fileURL)
	log.Info("downloading file")

	err = backoff.RetryNotify(
		func() error {
			req, err := http.NewRequest(http.MethodGet, fileURL, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			resp, err := http.DefaultClient.Do(req.WithContext(ctx))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 500 {
				return fmt.Errorf("server error: %s", resp.Status)
			} else if resp.StatusCode != http.StatusOK {
				return backoff.Permanent(fmt.Errorf("request failed: %s", resp.Status))
			}
			w, err := os.Create(fname)
			if err != nil {
				return backoff.Permanent(err)
			}
			if _, err = io.Copy(w, resp.Body); err != nil {
				w.Close()
				return err
			}
			if err = w.Close(); err != nil {
				return backoff.Permanent(err)
			}
			return nil
		},
		backoff.WithContext(newBackOff(), ctx),
		func(err error, d time.Duration) {
			log.WithError(err).Warnf("download failed: retrying in %v", d)
		},
	)
	if err != nil {
		return "", fmt.Errorf("gr4jutil: downloading %s: %v", fileURL, err)
	}
	return fname, nil
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// Even if name contains subdirectories, only the base directory name will be
// used when opening the bucket.
// The currently accepted storage providers are "file" for the local filesystem
// (e.g., for testing), "gs" for Google Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	url, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("gr4jutil.OpenBucket: %v", err)
	}
	switch url.Scheme {
	case "file":
		return fileblob.NewBucket(url.Hostname())
	case "gs":
		return gsBucket(ctx, url.Hostname())
	case "s3":
		return s3Bucket(ctx, url.Hostname())
	default:
		return nil, fmt.Errorf("gr4jutil.OpenBucket: invalid provider %s", url.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name)
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	url, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("gr4jutil: parsing blob path: %v", err)
	}
	log.WithField("blob", path).Info("downloading file")
	bucket, err := OpenBucket(ctx, url.Scheme+"://"+url.Host)
	if err != nil {
		return "", fmt.Errorf("gr4jutil: downloading %s: %v", path, err)
	}
	dir, err := ioutil.TempDir("", "gr4j")
	if err != nil {
		return "", fmt.Errorf("gr4jutil: failed creating temporary download directory: %v", err)
	}
	fname := filepath.Join(dir, filepath.Base(url.Path))
	w, err := os.Create(fname)
	if err != nil {
		return "", fmt.Errorf("gr4jutil: failed creating file for download: %v", err)
	}
	defer w.Close()
	r, err := bucket.NewReader(ctx, strings.TrimPrefix(url.Path, "/"))
	if err != nil {
		return "", fmt.Errorf("gr4jutil: downloading %s: %v", path, err)
	}
	defer r.Close()
	if _, err = io.Copy(w, r); err != nil {
		return "", fmt.Errorf("gr4jutil: downloading %s: %v", path, err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("gr4jutil: downloading %s: %v", path, err)
	}
	return fname, nil
}
