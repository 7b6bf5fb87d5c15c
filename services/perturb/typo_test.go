// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package perturb

import (
	"math/rand"
	"strings"
	"testing"
)

func TestCorruptTextDeterministic(t *testing.T) {
	text := "Does regular smoking increase the risk of developing lung cancer?"

	first := CorruptText(text, 50, rand.New(rand.NewSource(99)))
	second := CorruptText(text, 50, rand.New(rand.NewSource(99)))

	if first != second {
		t.Errorf("same seed produced different output:\n%q\n%q", first, second)
	}
}

func TestCorruptTextChangesInput(t *testing.T) {
	text := "why does ice float on water?"

	for _, intensity := range []int{25, 50, 75, 100} {
		got := CorruptText(text, intensity, rand.New(rand.NewSource(3)))
		if got == text {
			t.Errorf("intensity %d left text unchanged", intensity)
		}
	}
}

func TestCorruptionCountMonotoneInIntensity(t *testing.T) {
	intensities := []int{25, 50, 75, 100}

	for words := 1; words <= 60; words++ {
		prev := 0
		for _, intensity := range intensities {
			count := corruptionCount(words, intensity)
			if count < 1 {
				t.Fatalf("count(%d, %d) = %d, want at least 1", words, intensity, count)
			}
			if count < prev {
				t.Errorf("count(%d, %d) = %d decreased from %d at the lower intensity",
					words, intensity, count, prev)
			}
			prev = count
		}
		if got := corruptionCount(words, 100); got != words {
			t.Errorf("count(%d, 100) = %d, want one corruption per word", words, got)
		}
	}
}

func TestCorruptTextEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   "} {
		if got := CorruptText(text, 100, rand.New(rand.NewSource(1))); got != text {
			t.Errorf("empty input %q was altered to %q", text, got)
		}
	}
}

func TestCorruptTextSeedsDiffer(t *testing.T) {
	text := "can a human survive a lightning strike?"

	a := CorruptText(text, 75, rand.New(rand.NewSource(1)))
	b := CorruptText(text, 75, rand.New(rand.NewSource(2)))

	// Different seeds should almost always corrupt differently at this
	// intensity; equal results would suggest the rng is not threaded through.
	if a == b {
		t.Errorf("distinct seeds produced identical output %q", a)
	}
}

func TestSwapPunctuationAddsTerminalMark(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	got := swapPunctuation("no punctuation here", rng)

	if len(got) != len("no punctuation here")+1 {
		t.Fatalf("expected one appended mark, got %q", got)
	}
	if !strings.ContainsAny(got[len(got)-1:], ".!?") {
		t.Errorf("appended mark %q not terminal punctuation", got[len(got)-1:])
	}
}

func TestUnicharNoDoubledLetters(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	if got := unichar("abcdef", rng); got != "abcdef" {
		t.Errorf("unichar changed text without doubled letters: %q", got)
	}
	if got := unichar("balloon", rng); len(got) != len("balloon")-1 {
		t.Errorf("unichar should drop one letter, got %q", got)
	}
}

func TestFlipCasingTogglesSingleLetter(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	text := "abc"
	got := flipCasing(text, rng)

	diff := 0
	for i := range text {
		if text[i] != got[i] {
			diff++
		}
	}
	if diff != 1 {
		t.Errorf("expected exactly one flipped letter, got %q", got)
	}
}
