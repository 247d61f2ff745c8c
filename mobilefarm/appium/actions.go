package appium

import (
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

const defaultTapPause = 100 * time.Millisecond

// pointerSource builds one W3C "pointer" input source of kind touch.
func pointerSource(id string, actions []map[string]any) map[string]any {
	return map[string]any{
		"type":       "pointer",
		"id":         id,
		"parameters": map[string]any{"pointerType": "touch"},
		"actions":    actions,
	}
}

func move(p definitions.Point, d time.Duration) map[string]any {
	return map[string]any{
		"type":     "pointerMove",
		"duration": d.Milliseconds(),
		"x":        p.X,
		"y":        p.Y,
		"origin":   "viewport",
	}
}

func down() map[string]any {
	return map[string]any{"type": "pointerDown", "button": 0}
}

func up() map[string]any {
	return map[string]any{"type": "pointerUp", "button": 0}
}

func pause(d time.Duration) map[string]any {
	return map[string]any{"type": "pause", "duration": d.Milliseconds()}
}

// tapActions presses one finger per position; positions are tapped together.
func tapActions(positions []definitions.Point, duration time.Duration) map[string]any {
	hold := lo.Ternary(duration > 0, duration, defaultTapPause)
	sources := lo.Map(positions, func(p definitions.Point, i int) map[string]any {
		return pointerSource(fingerID(i), []map[string]any{move(p, 0), down(), pause(hold), up()})
	})
	return map[string]any{"actions": sources}
}

func swipeActions(start, end definitions.Point, duration time.Duration) map[string]any {
	return map[string]any{
		"actions": []map[string]any{
			pointerSource("finger1", []map[string]any{move(start, 0), down(), move(end, duration), up()}),
		},
	}
}

func fingerID(i int) string {
	return "finger" + strconv.Itoa(i+1)
}
