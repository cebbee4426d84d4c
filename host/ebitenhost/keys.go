package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritecore/frame"
)

var keyMap = map[ebiten.Key]frame.Key{
	ebiten.KeyA:          frame.KeyA,
	ebiten.KeyD:          frame.KeyD,
	ebiten.KeyQ:          frame.KeyQ,
	ebiten.KeyS:          frame.KeyS,
	ebiten.KeyV:          frame.KeyV,
	ebiten.KeyW:          frame.KeyW,
	ebiten.KeySpace:      frame.KeySpace,
	ebiten.KeyHome:       frame.KeyHome,
	ebiten.KeyEscape:     frame.KeyEscape,
	ebiten.KeyArrowLeft:  frame.KeyArrowLeft,
	ebiten.KeyArrowRight: frame.KeyArrowRight,
	ebiten.KeyArrowUp:    frame.KeyArrowUp,
	ebiten.KeyArrowDown:  frame.KeyArrowDown,
}

var mouseButtons = map[ebiten.MouseButton]frame.MouseButton{
	ebiten.MouseButtonLeft:   frame.MouseLeft,
	ebiten.MouseButtonRight:  frame.MouseRight,
	ebiten.MouseButtonMiddle: frame.MouseMiddle,
}

// translateKeys appends the frame keys for every mapped ebiten key in held.
func translateKeys(held []ebiten.Key, dst []frame.Key) []frame.Key {
	for _, k := range held {
		if fk, ok := keyMap[k]; ok {
			dst = append(dst, fk)
		}
	}
	return dst
}
