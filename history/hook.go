package history

import (
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
)

// OnPlay wraps a form play hook so played streams are remembered first.
// Nothing is written unless history.save_on_play is set. next may be nil.
func OnPlay(next func(stream.Result, *player.Session)) func(stream.Result, *player.Session) {
	return func(result stream.Result, session *player.Session) {
		if viper.GetBool(key.HistorySaveOnPlay) {
			if err := Remember(result); err != nil {
				log.Warnf("remember %s: %v", result.Request, err)
			}
		}

		if next != nil {
			next(result, session)
		}
	}
}
