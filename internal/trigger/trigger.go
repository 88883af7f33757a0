// Package trigger resolves the source-control event that started a run.
package trigger

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Event is a source-control notification that starts a run.
type Event string

const (
	EventPush        Event = "push"
	EventPullRequest Event = "pull_request"
)

var ErrUnknownEvent = errors.New("unknown trigger event")

// envKeys are checked in order when resolving the event from the hosting CI.
var envKeys = []string{"ANCHORCI_EVENT", "GITHUB_EVENT_NAME", "CI_PIPELINE_SOURCE"}

// Parse normalises an event name. Dashes and underscores are equivalent.
func Parse(name string) (Event, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "_") {
	case "push":
		return EventPush, nil
	case "pull_request", "merge_request_event":
		return EventPullRequest, nil
	}

	return "", errors.Wrapf(ErrUnknownEvent, "%q", name)
}

// Resolve determines the triggering event from the hosting CI's environment.
// The first set variable wins; an unsupported value is an error so that
// runs triggered by events outside the push/pull-request set do not get
// treated as pushes. An entirely unset environment resolves to a push.
func Resolve(getenv func(string) string) (Event, error) {
	for _, key := range envKeys {
		v := getenv(key)
		if v == "" {
			continue
		}

		ev, err := Parse(v)
		if err != nil {
			log.WithFields(log.Fields{"key": key, "value": v}).Debug("unsupported trigger event")

			return "", errors.Wrapf(err, "from %s", key)
		}

		return ev, nil
	}

	return EventPush, nil
}

// Matches reports whether the event is enabled by a pipeline's trigger list.
// An empty list enables every event.
func (e Event) Matches(on []string) bool {
	if len(on) == 0 {
		return true
	}

	for _, name := range on {
		ev, err := Parse(name)
		if err != nil {
			continue
		}
		if ev == e {
			return true
		}
	}

	return false
}
