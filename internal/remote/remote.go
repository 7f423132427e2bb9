// Package remote keeps a vault in an S3 bucket. Objects under the configured
// prefix are the notes; store paths are keys with the prefix stripped.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/sweep/internal/config"
	"github.com/Paintersrp/sweep/internal/pathutil"
)

type Options struct {
	IgnoredFolders []string
	IgnorePatterns []string
	ModifiedBefore time.Time
	Logger         zerolog.Logger
}

type Store struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
	ignored    map[string]struct{}
	patterns   []glob.Glob
	before     time.Time
	log        zerolog.Logger
}

// ParseURL splits an s3://bucket/prefix location.
func ParseURL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid remote %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid remote %q: expected s3://bucket/prefix", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func New(ctx context.Context, rc config.RemoteConfig, opts Options) (*Store, error) {
	if !rc.Enabled() {
		return nil, fmt.Errorf("remote bucket is not configured")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if rc.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(rc.Region))
	}
	if rc.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(rc.AccessKeyID, rc.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if rc.Endpoint != "" {
			o.BaseEndpoint = aws.String(rc.Endpoint)
		}
		o.UsePathStyle = rc.PathStyle
	})

	st := &Store{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     rc.Bucket,
		prefix:     normalizePrefix(rc.Prefix),
		ignored:    make(map[string]struct{}, len(opts.IgnoredFolders)),
		before:     opts.ModifiedBefore,
		log:        opts.Logger,
	}

	for _, folder := range opts.IgnoredFolders {
		if folder = strings.Trim(folder, "/"); folder != "" {
			st.ignored[folder] = struct{}{}
		}
	}
	for _, pattern := range opts.IgnorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		st.patterns = append(st.patterns, g)
	}

	return st, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (s *Store) Location() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *Store) key(rel string) string {
	return s.prefix + rel
}

func (s *Store) ListMarkdownFiles(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var files []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}

		for _, obj := range page.Contents {
			rel := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if !s.eligible(rel, obj.LastModified) {
				continue
			}
			files = append(files, rel)
		}
	}

	return files, nil
}

func (s *Store) eligible(rel string, modified *time.Time) bool {
	if rel == "" || !pathutil.IsMarkdown(rel) {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if _, skip := s.ignored[dir]; skip {
			return false
		}
	}
	for _, g := range s.patterns {
		if g.Match(rel) {
			return false
		}
	}
	if !s.before.IsZero() && modified != nil && !modified.Before(s.before) {
		return false
	}
	return true
}

func (s *Store) ReadFile(ctx context.Context, rel string) (string, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(rel)),
	})
	if err != nil {
		return "", translate(rel, err)
	}
	return string(buf.Bytes()), nil
}

// DeleteFile checks the object exists first, since S3 reports success for
// deletes of missing keys.
func (s *Store) DeleteFile(ctx context.Context, rel string) error {
	key := aws.String(s.key(rel))

	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		return translate(rel, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		return translate(rel, err)
	}

	s.log.Debug().Str("key", aws.ToString(key)).Msg("object deleted")
	return nil
}

func (s *Store) Basename(rel string) string {
	return pathutil.NoteBasename(rel)
}

func translate(rel string, err error) error {
	var notFound *types.NotFound
	var noKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return fmt.Errorf("%s: %w", rel, fs.ErrNotExist)
	}
	return err
}
