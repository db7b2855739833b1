// Package ident derives the site's natural keys from page URLs.
package ident

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidURLFormat = errors.New("invalid url format")

type InvalidURLError struct {
	URL  string
	Kind string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("could not extract %s id from url %q", e.Kind, e.URL)
}

func (e *InvalidURLError) Is(target error) bool {
	return target == ErrInvalidURLFormat
}

var (
	teamPattern   = regexp.MustCompile(`/team/(\d+)(?:/|$)`)
	playerPattern = regexp.MustCompile(`/player/(\d+)(?:/|$)`)
	eventPattern  = regexp.MustCompile(`^/event/(\d+)(/[^/]+)?`)
	digits        = regexp.MustCompile(`^\d+$`)
)

func TeamID(rawURL string) (string, error) {
	return captureID(rawURL, "team", teamPattern)
}

func PlayerID(rawURL string) (string, error) {
	return captureID(rawURL, "player", playerPattern)
}

// MatchID returns the first path segment made only of digits.
func MatchID(rawURL string) (string, error) {
	p, err := path(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Kind: "match"}
	}
	for _, seg := range strings.Split(p, "/") {
		if digits.MatchString(seg) {
			return seg, nil
		}
	}
	return "", &InvalidURLError{URL: rawURL, Kind: "match"}
}

// EventMatchesURL maps /event/<id>/<slug>[/<stage>] to the event's match list.
func EventMatchesURL(eventURL string) (string, error) {
	u, err := parse(eventURL)
	if err != nil {
		return "", &InvalidURLError{URL: eventURL, Kind: "event"}
	}
	m := eventPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", &InvalidURLError{URL: eventURL, Kind: "event"}
	}
	out := *u
	out.Path = "/event/matches/" + m[1] + m[2]
	out.RawQuery = "series_id=all"
	out.Fragment = ""
	return out.String(), nil
}

// TeamMatchesURL maps /team/<id>/<slug> to the team's match history.
func TeamMatchesURL(teamURL string) (string, error) {
	id, err := TeamID(teamURL)
	if err != nil {
		return "", err
	}
	u, err := parse(teamURL)
	if err != nil {
		return "", &InvalidURLError{URL: teamURL, Kind: "team"}
	}
	out := *u
	rest := strings.TrimPrefix(u.Path[strings.Index(u.Path, "/team/"+id)+len("/team/"+id):], "/")
	out.Path = "/team/matches/" + id
	if rest != "" {
		out.Path += "/" + rest
	}
	out.RawQuery = ""
	out.Fragment = ""
	return out.String(), nil
}

func captureID(rawURL, kind string, re *regexp.Regexp) (string, error) {
	p, err := path(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Kind: kind}
	}
	m := re.FindStringSubmatch(p)
	if m == nil {
		return "", &InvalidURLError{URL: rawURL, Kind: kind}
	}
	return m[1], nil
}

func path(rawURL string) (string, error) {
	u, err := parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

func parse(rawURL string) (*url.URL, error) {
	return url.Parse(strings.TrimSpace(rawURL))
}
