// Package reel модель барабанов: популяция символов с весами и выборка поля 3x5.
package reel

import (
	"errors"
	"fmt"
	"sort"

	"haunted_slot/internal/engine/rng"
	"haunted_slot/internal/model"
)

// Mode способ выборки видимого окна
type Mode string

const (
	// ModeStrip виртуальная лента: случайная остановка и окно stop-1..stop+1 с переходом через край
	ModeStrip Mode = "strip"
	// ModeWeighted каждая ячейка выбирается независимо по весам
	ModeWeighted Mode = "weighted"
)

var (
	ErrEmptyPopulation = errors.New("reel: empty symbol population")
	ErrBadWeight       = errors.New("reel: negative symbol weight")
	ErrUnknownMode     = errors.New("reel: unknown draw mode")
)

// Config популяция символов общая для всех барабанов
type Config struct {
	Population []model.Symbol
	Mode       Mode
}

type Model struct {
	mode  Mode
	strip []string
	// для ModeWeighted: символы и накопленные веса
	names      []string
	cumulative []int
	total      int
	rnd        rng.Source
}

// New строит модель. Пустая популяция или нулевые веса - ошибка конфигурации
func New(cfg Config, rnd rng.Source) (*Model, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeStrip
	}
	if mode != ModeStrip && mode != ModeWeighted {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	m := &Model{mode: mode, rnd: rnd}
	for _, s := range cfg.Population {
		if s.Weight < 0 {
			return nil, fmt.Errorf("%w: %s=%d", ErrBadWeight, s.Name, s.Weight)
		}
		if s.Weight == 0 {
			continue
		}
		for i := 0; i < s.Weight; i++ {
			m.strip = append(m.strip, s.Name)
		}
		m.total += s.Weight
		m.names = append(m.names, s.Name)
		m.cumulative = append(m.cumulative, m.total)
	}
	if m.total == 0 {
		return nil, ErrEmptyPopulation
	}
	return m, nil
}

// Draw новое поле 3x5
func (m *Model) Draw() model.Grid {
	g, _ := m.DrawWithStops()
	return g
}

// DrawWithStops поле и индексы остановки барабанов.
// В режиме ModeWeighted индекс остановки не имеет смысла и равен -1
func (m *Model) DrawWithStops() (model.Grid, [model.Reels]int) {
	var grid model.Grid
	var stops [model.Reels]int

	for reel := 0; reel < model.Reels; reel++ {
		if m.mode == ModeWeighted {
			stops[reel] = -1
			for row := 0; row < model.Rows; row++ {
				grid[row][reel] = m.sample()
			}
			continue
		}

		n := len(m.strip)
		stop := m.rnd.IntN(n)
		stops[reel] = stop
		// окно из трех символов вокруг остановки
		for row := 0; row < model.Rows; row++ {
			idx := ((stop+row-1)%n + n) % n
			grid[row][reel] = m.strip[idx]
		}
	}
	return grid, stops
}

func (m *Model) sample() string {
	v := m.rnd.IntN(m.total)
	i := sort.Search(len(m.cumulative), func(i int) bool { return m.cumulative[i] > v })
	return m.names[i]
}

// Mode режим выборки
func (m *Model) Mode() Mode {
	return m.mode
}

// Strip копия виртуальной ленты
func (m *Model) Strip() []string {
	out := make([]string, len(m.strip))
	copy(out, m.strip)
	return out
}

// Weights вес каждого символа
func (m *Model) Weights() map[string]int {
	out := make(map[string]int, len(m.names))
	prev := 0
	for i, name := range m.names {
		out[name] = m.cumulative[i] - prev
		prev = m.cumulative[i]
	}
	return out
}
