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
	"unicode"
)

// typoMethods are the corruption techniques applied by the character-level
// perturbation, drawn with replacement per corrupted word.
var typoMethods = []string{
	"char_swap",
	"missing_char",
	"extra_char",
	"nearby_char",
	"similar_char",
	"skipped_space",
	"random_space",
	"repeated_char",
	"unichar",
	"casing",
	"punctuation",
}

// qwertyNeighbors maps lowercase letters to keys adjacent on a QWERTY layout.
var qwertyNeighbors = map[rune]string{
	'a': "qwsz", 'b': "vghn", 'c': "xdfv", 'd': "serfcx", 'e': "wsdr",
	'f': "drtgvc", 'g': "ftyhbv", 'h': "gyujnb", 'i': "ujko", 'j': "huikmn",
	'k': "jiolm", 'l': "kop", 'm': "njk", 'n': "bhjm", 'o': "iklp",
	'p': "ol", 'q': "wa", 'r': "edft", 's': "awedxz", 't': "rfgy",
	'u': "yhji", 'v': "cfgb", 'w': "qase", 'x': "zsdc", 'y': "tghu",
	'z': "asx",
}

// similarChars maps characters to visually confusable replacements.
var similarChars = map[rune]string{
	'o': "0", '0': "o", 'l': "1i", '1': "li", 'i': "1l", 's': "5", '5': "s",
	'e': "3", '3': "e", 'a': "4", '4': "a", 'b': "8", '8': "b", 'g': "9q",
	'9': "g", 'z': "2", '2': "z", 't': "7", '7': "t",
}

// CorruptText applies intensity-scaled character noise to text. The number
// of corruptions scales with the word count, with at least one applied.
// All randomness flows through rng, so equal seeds give equal output.
func CorruptText(text string, intensity int, rng *rand.Rand) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	count := corruptionCount(len(strings.Fields(text)), intensity)

	available := make([]string, len(typoMethods))
	copy(available, typoMethods)

	queue := make([]string, 0, count)
	for i := 0; i < count; i++ {
		queue = append(queue, available[rng.Intn(len(available))])
	}

	for i := 0; i < len(queue); i++ {
		method := queue[i]
		before := text
		text = applyTypo(text, method, rng)
		if text != before {
			continue
		}
		// A method that cannot change this text is retired and replaced.
		for j, m := range available {
			if m == method {
				available = append(available[:j], available[j+1:]...)
				break
			}
		}
		if len(available) == 0 {
			break
		}
		queue = append(queue, available[rng.Intn(len(available))])
	}

	return text
}

// corruptionCount scales the number of corruptions with the word count,
// never below one. Non-decreasing in intensity for a fixed word count.
func corruptionCount(words, intensity int) int {
	count := words * intensity / 100
	if count < 1 {
		return 1
	}
	return count
}

func applyTypo(text, method string, rng *rand.Rand) string {
	switch method {
	case "char_swap":
		return charSwap(text, rng)
	case "missing_char":
		return missingChar(text, rng)
	case "extra_char":
		return extraChar(text, rng)
	case "nearby_char":
		return nearbyChar(text, rng)
	case "similar_char":
		return similarChar(text, rng)
	case "skipped_space":
		return skippedSpace(text, rng)
	case "random_space":
		return randomSpace(text, rng)
	case "repeated_char":
		return repeatedChar(text, rng)
	case "unichar":
		return unichar(text, rng)
	case "casing":
		return flipCasing(text, rng)
	case "punctuation":
		return swapPunctuation(text, rng)
	}
	return text
}

func charSwap(text string, rng *rand.Rand) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	i := rng.Intn(len(runes) - 1)
	runes[i], runes[i+1] = runes[i+1], runes[i]
	return string(runes)
}

func missingChar(text string, rng *rand.Rand) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	i := rng.Intn(len(runes))
	return string(append(runes[:i], runes[i+1:]...))
}

func extraChar(text string, rng *rand.Rand) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	i := rng.Intn(len(runes))
	insert := randomNeighbor(runes[i], rng)
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:i]...)
	out = append(out, insert)
	out = append(out, runes[i:]...)
	return string(out)
}

func nearbyChar(text string, rng *rand.Rand) string {
	runes := []rune(text)
	indices := letterIndices(runes)
	if len(indices) == 0 {
		return text
	}
	i := indices[rng.Intn(len(indices))]
	replacement := randomNeighbor(runes[i], rng)
	if unicode.IsUpper(runes[i]) {
		replacement = unicode.ToUpper(replacement)
	}
	runes[i] = replacement
	return string(runes)
}

func similarChar(text string, rng *rand.Rand) string {
	runes := []rune(text)
	candidates := make([]int, 0, len(runes))
	for i, r := range runes {
		if _, ok := similarChars[unicode.ToLower(r)]; ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return text
	}
	i := candidates[rng.Intn(len(candidates))]
	pool := []rune(similarChars[unicode.ToLower(runes[i])])
	runes[i] = pool[rng.Intn(len(pool))]
	return string(runes)
}

func skippedSpace(text string, rng *rand.Rand) string {
	runes := []rune(text)
	spaces := make([]int, 0, len(runes))
	for i, r := range runes {
		if r == ' ' {
			spaces = append(spaces, i)
		}
	}
	if len(spaces) == 0 {
		return text
	}
	i := spaces[rng.Intn(len(spaces))]
	return string(append(runes[:i], runes[i+1:]...))
}

func randomSpace(text string, rng *rand.Rand) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	i := 1 + rng.Intn(len(runes)-1)
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:i]...)
	out = append(out, ' ')
	out = append(out, runes[i:]...)
	return string(out)
}

func repeatedChar(text string, rng *rand.Rand) string {
	runes := []rune(text)
	indices := letterIndices(runes)
	if len(indices) == 0 {
		return text
	}
	i := indices[rng.Intn(len(indices))]
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:i+1]...)
	out = append(out, runes[i])
	out = append(out, runes[i+1:]...)
	return string(out)
}

// unichar collapses one doubled character into a single occurrence.
func unichar(text string, rng *rand.Rand) string {
	runes := []rune(text)
	pairs := make([]int, 0)
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] == runes[i+1] && unicode.IsLetter(runes[i]) {
			pairs = append(pairs, i)
		}
	}
	if len(pairs) == 0 {
		return text
	}
	i := pairs[rng.Intn(len(pairs))]
	return string(append(runes[:i], runes[i+1:]...))
}

func flipCasing(text string, rng *rand.Rand) string {
	runes := []rune(text)
	indices := letterIndices(runes)
	if len(indices) == 0 {
		return text
	}
	i := indices[rng.Intn(len(indices))]
	if unicode.IsUpper(runes[i]) {
		runes[i] = unicode.ToLower(runes[i])
	} else {
		runes[i] = unicode.ToUpper(runes[i])
	}
	return string(runes)
}

func swapPunctuation(text string, rng *rand.Rand) string {
	runes := []rune(text)
	indices := make([]int, 0, len(runes))
	for i, r := range runes {
		if strings.ContainsRune(".,!?;:-", r) {
			indices = append(indices, i)
		}
	}
	// No punctuation present, append a terminal mark instead.
	if len(indices) == 0 {
		terminal := []rune(".!?")
		return text + string(terminal[rng.Intn(len(terminal))])
	}

	i := indices[rng.Intn(len(indices))]
	current := runes[i]
	var pool string
	if strings.ContainsRune(",;:-", current) {
		pool = ",;:- "
	} else {
		pool = "!?. "
	}
	replacements := make([]rune, 0, len(pool))
	for _, r := range pool {
		if r != current {
			replacements = append(replacements, r)
		}
	}
	runes[i] = replacements[rng.Intn(len(replacements))]
	return string(runes)
}

func letterIndices(runes []rune) []int {
	indices := make([]int, 0, len(runes))
	for i, r := range runes {
		if unicode.IsLetter(r) {
			indices = append(indices, i)
		}
	}
	return indices
}

func randomNeighbor(r rune, rng *rand.Rand) rune {
	neighbors, ok := qwertyNeighbors[unicode.ToLower(r)]
	if !ok {
		neighbors = "abcdefghijklmnopqrstuvwxyz"
	}
	pool := []rune(neighbors)
	return pool[rng.Intn(len(pool))]
}
