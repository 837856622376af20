package ui

import "image/color"

type Theme struct {
	Background     color.RGBA
	Toolbar        color.RGBA
	Button         color.RGBA
	ButtonHover    color.RGBA
	ButtonActive   color.RGBA
	Border         color.RGBA
	Popup          color.RGBA
	SliderTrack    color.RGBA
	SliderKnob     color.RGBA
	Selection      color.RGBA
	StatusBar      color.RGBA
	Text           color.RGBA
	ToolbarHeight  int
	ButtonSize     int
	ButtonGap      int
	ToolbarTop     int
	StatusHeight   int
	PopupWidth     int
	PopupHeight    int
	SwatchSize     int
	SelectionWidth int
}

func DefaultTheme() Theme {
	return Theme{
		Background:     color.RGBA{0xD3, 0xD3, 0xD3, 0xFF},
		Toolbar:        color.RGBA{0xF7, 0xF9, 0xFC, 0xF0},
		Button:         color.RGBA{0xF1, 0xF5, 0xFB, 0xFF},
		ButtonHover:    color.RGBA{0xDF, 0xEC, 0xFC, 0xFF},
		ButtonActive:   color.RGBA{0xE5, 0x39, 0x35, 0xFF},
		Border:         color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Popup:          color.RGBA{0xD3, 0xD3, 0xD3, 0xFF},
		SliderTrack:    color.RGBA{0x9E, 0xA7, 0xB3, 0xFF},
		SliderKnob:     color.RGBA{0x1E, 0x88, 0xE5, 0xFF},
		Selection:      color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		StatusBar:      color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Text:           color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		ToolbarHeight:  48,
		ButtonSize:     36,
		ButtonGap:      6,
		ToolbarTop:     30,
		StatusHeight:   24,
		PopupWidth:     220,
		PopupHeight:    132,
		SwatchSize:     18,
		SelectionWidth: 2,
	}
}
