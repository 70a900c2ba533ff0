package config

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
)

// SetupLogging sends log messages at or above the named level to standard
// error under the given process name.
func SetupLogging(name, l string) error {
	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return errors.Wrap(err, "setting log sender")
	}
	grip.SetName(name)

	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = level.FromString(l)

	return errors.Wrap(sender.SetLevel(info), "setting log level")
}
