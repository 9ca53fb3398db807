package share

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/mydiary/internal/common"
)

const (
	// ViewPath is the route both link modes point at.
	ViewPath = "/share/view"
	// DataParam is the query parameter carrying a data token.
	DataParam = "data"
)

// DataLink returns base + "/share/view?data=<token>".
func DataLink(base string, v View) (string, error) {
	token, err := Encode(v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(base, "/") + ViewPath + "?" + DataParam + "=" + token, nil
}

// ParseDataLink extracts and decodes the data token of a link built by DataLink.
func ParseDataLink(rawURL string) (View, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return View{}, fmt.Errorf("%w: %v", common.ErrInvalidLink, err)
	}
	if !strings.HasSuffix(strings.TrimRight(u.Path, "/"), ViewPath) {
		return View{}, fmt.Errorf("%w: unexpected path %q", common.ErrInvalidLink, u.Path)
	}
	token := u.Query().Get(DataParam)
	if token == "" {
		return View{}, fmt.Errorf("%w: no entry data found in link", common.ErrInvalidLink)
	}
	return Decode(token)
}

// IDLink returns base + "/share/view/<id>". The link is only meaningful to a
// reader with access to the same local store.
func IDLink(base, id string) string {
	return strings.TrimRight(base, "/") + ViewPath + "/" + url.PathEscape(id)
}

// ParseIDLink extracts the entry id from a link built by IDLink.
func ParseIDLink(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidLink, err)
	}
	// split on the escaped form so ids containing '/' survive
	dir, escaped := path.Split(strings.TrimRight(u.EscapedPath(), "/"))
	if !strings.HasSuffix(strings.TrimRight(dir, "/"), ViewPath) || escaped == "" {
		return "", fmt.Errorf("%w: no entry id in %q", common.ErrInvalidLink, u.Path)
	}
	id, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidLink, err)
	}
	return id, nil
}
