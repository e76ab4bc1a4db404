package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/service"
)

// Callback data prefixes carried by inline buttons.
const (
	prefixHoles = "holes:"
	prefixDist  = "dist:"
	prefixGIR   = "gir:"

	girYes = "yes"
	girNo  = "no"

	distancesPerRow = 4
)

var ErrUnknownCallback = errors.New("unknown callback data")

func HoleCountData(n int) string {
	return prefixHoles + strconv.Itoa(n)
}

func DistanceData(d model.Distance) string {
	return prefixDist + string(d)
}

func GIRData(gir bool) string {
	if gir {
		return prefixGIR + girYes
	}
	return prefixGIR + girNo
}

// ParseCallback turns button callback data into a conversation event.
func ParseCallback(data string) (service.Event, error) {
	switch {
	case strings.HasPrefix(data, prefixHoles):
		n, err := service.ParseHoleCount(strings.TrimPrefix(data, prefixHoles))
		if err != nil {
			return service.Event{}, err
		}
		return service.HoleCountChosen(n), nil

	case strings.HasPrefix(data, prefixDist):
		d := model.Distance(strings.TrimPrefix(data, prefixDist))
		if d != model.DistanceMadeIt && !d.Valid() {
			return service.Event{}, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
		}
		return service.DistanceChosen(d), nil

	case data == prefixGIR+girYes:
		return service.GIRChosen(true), nil
	case data == prefixGIR+girNo:
		return service.GIRChosen(false), nil
	}

	return service.Event{}, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
}

func holeCountKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("9 holes", HoleCountData(model.HolesFront)),
			tgbotapi.NewInlineKeyboardButtonData("18 holes", HoleCountData(model.HolesFull)),
		),
	)
}

// distanceKeyboard lays the distances out in rows of four, with the
// made-it choice on its own row first when offered.
func distanceKeyboard(withMadeIt bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if withMadeIt {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("0 (Made It!)", DistanceData(model.DistanceMadeIt)),
		))
	}

	var row []tgbotapi.InlineKeyboardButton
	for _, d := range model.Distances {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(d), DistanceData(d)))
		if len(row) == distancesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func girKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("GIR", GIRData(true)),
			tgbotapi.NewInlineKeyboardButtonData("Non-GIR", GIRData(false)),
		),
	)
}

// markup renders a keyboard kind. The bool is false for KeyboardNone.
func markup(k service.Keyboard) (tgbotapi.InlineKeyboardMarkup, bool) {
	switch k {
	case service.KeyboardHoleCount:
		return holeCountKeyboard(), true
	case service.KeyboardDistance:
		return distanceKeyboard(false), true
	case service.KeyboardDistanceWithMadeIt:
		return distanceKeyboard(true), true
	case service.KeyboardGIR:
		return girKeyboard(), true
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}
