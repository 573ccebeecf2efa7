package flows

import (
	"fmt"
	"sync"

	"gopkg.in/telebot.v3"

	"schedule-bot/internal/app/service"
	"schedule-bot/internal/delivery/telegram/router"
)

// RegisterUpdates wires the /update command and the download button. The
// latest check result is kept per chat because callback payloads are too short
// to carry a download URL.
func RegisterUpdates(bot *telebot.Bot, r *router.CallbackRouter, updates *service.UpdateService) {
	var mu sync.Mutex
	pending := make(map[int64]*service.UpdateInfo)

	bot.Handle("/update", func(c telebot.Context) error {
		chat := c.Chat()
		if err := c.Send(fmt.Sprintf("Current version: %s. Checking for updates…", updates.Version)); err != nil {
			return err
		}
		updates.CheckAsync(func(info *service.UpdateInfo, err error) {
			if err != nil {
				_, _ = bot.Send(chat, "Update check failed: "+err.Error())
				return
			}
			if !info.Newer {
				_, _ = bot.Send(chat, "You're on the latest version.")
				return
			}
			mu.Lock()
			pending[chat.ID] = info
			mu.Unlock()

			text := fmt.Sprintf("Version %s is available.", info.Version)
			if info.ReleaseNotes != "" {
				text += "\n\n" + info.ReleaseNotes
			}
			markup := &telebot.ReplyMarkup{}
			markup.Inline(markup.Row(markup.Data("⬇ Download", "upd_dl")))
			_, _ = bot.Send(chat, text, markup)
		})
		return nil
	})

	r.Register("upd_dl", func(c telebot.Context, payload string) error {
		chat := c.Chat()
		mu.Lock()
		info := pending[chat.ID]
		mu.Unlock()
		if info == nil || info.DownloadURL == "" {
			return c.Send("No pending update — run /update first.")
		}
		if err := c.Send("Downloading " + info.Version + "…"); err != nil {
			return err
		}
		updates.Async.Fire(func() (any, error) {
			return updates.Download(info.DownloadURL, nil)
		}, func(v any, err error) {
			if err != nil {
				_, _ = bot.Send(chat, "Download failed: "+err.Error())
				return
			}
			_, _ = bot.Send(chat, "Downloaded to "+v.(string)+". Install it and restart the bot.")
		})
		return nil
	})
}
