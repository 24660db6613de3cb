// Package rng генератор случайных чисел для барабанов и джекпотов.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/bits"
	"sync"
)

// Source источник случайности для движка
type Source interface {
	Uint64() uint64
	// IntN равномерно в [0, n)
	IntN(n int) int
	// Float64 равномерно в [0, 1)
	Float64() float64
}

// Xoshiro генератор xoshiro256**
type Xoshiro struct {
	s [4]uint64
}

// New создает генератор из 32 байт сида. Короткий сид повторяется до нужной длины
func New(seed []byte) (*Xoshiro, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("rng: empty seed")
	}
	buf := make([]byte, 0, 32)
	for len(buf) < 32 {
		buf = append(buf, seed...)
	}
	x := &Xoshiro{}
	for i := range x.s {
		x.s[i] = binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
	}
	// нулевое состояние генератор не покидает
	if x.s == [4]uint64{} {
		x.s[0] = 1
	}
	return x, nil
}

// NewRandom сид из crypto/rand
func NewRandom() (*Xoshiro, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("rng: read seed: %w", err)
	}
	return New(seed)
}

// NewSeeded детерминированный генератор, состояние разворачивается через splitmix64
func NewSeeded(seed uint64) *Xoshiro {
	x := &Xoshiro{}
	for i := range x.s {
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		x.s[i] = z ^ (z >> 31)
	}
	if x.s == [4]uint64{} {
		x.s[0] = 1
	}
	return x
}

func (x *Xoshiro) Uint64() uint64 {
	result := bits.RotateLeft64(x.s[1]*5, 7) * 9
	t := x.s[1] << 17

	x.s[2] ^= x.s[0]
	x.s[3] ^= x.s[1]
	x.s[1] ^= x.s[2]
	x.s[0] ^= x.s[3]
	x.s[2] ^= t
	x.s[3] = bits.RotateLeft64(x.s[3], 45)

	return result
}

func (x *Xoshiro) Float64() float64 {
	return float64(x.Uint64()>>11) * (1.0 / (1 << 53))
}

// IntN без смещения по модулю: значения из неполного хвоста отбрасываются
func (x *Xoshiro) IntN(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to IntN")
	}
	un := uint64(n)
	rem := -un % un
	if rem == 0 {
		return int(x.Uint64() % un)
	}
	limit := -rem
	for {
		v := x.Uint64()
		if v < limit {
			return int(v % un)
		}
	}
}

// Locked делает источник безопасным для нескольких горутин
type Locked struct {
	mu  sync.Mutex
	src Source
}

func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
