package cli

import (
	"context"
	"time"

	"github.com/onlyonestudio/onlyone/pkg/cache"
	"github.com/onlyonestudio/onlyone/pkg/imagehost"
)

// ttlUpload keeps memoized upload URLs across runs. Hosts garbage-collect
// unused anonymous uploads eventually, so the memo expires too.
const ttlUpload = 30 * 24 * time.Hour

// cachedUploader persists upload URLs in the file cache so a re-run of a
// half-finished drop never uploads the same print file twice.
type cachedUploader struct {
	client *imagehost.Client
	cache  cache.Cache
}

func (u *cachedUploader) Upload(ctx context.Context, path, title string) (string, error) {
	key := cache.Key("upload", path, title)
	if data, ok, err := u.cache.Get(ctx, key); err == nil && ok {
		return string(data), nil
	}

	url, err := u.client.Upload(ctx, path, title)
	if err != nil {
		return "", err
	}
	_ = u.cache.Set(ctx, key, []byte(url), ttlUpload)
	return url, nil
}
