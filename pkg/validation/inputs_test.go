// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import "testing"

func TestDataset(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"squad2 is valid", "squad2", false},
		{"eli5 is valid", "eli5", false},
		{"unknown dataset", "hotpotqa", true},
		{"empty", "", true},
		{"case sensitive", "SQuAD2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Dataset(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("Dataset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestPerturbation(t *testing.T) {
	for _, p := range Perturbations {
		if err := Perturbation(p); err != nil {
			t.Errorf("Perturbation(%q) unexpected error: %v", p, err)
		}
	}
	if err := Perturbation("char"); err == nil {
		t.Error("Perturbation(\"char\") should be invalid, the type is called typo")
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		wantErr bool
	}{
		{"25", 25, false},
		{"50", 50, false},
		{"75", 75, false},
		{"100", 100, false},
		{"zero means default", 0, false},
		{"10 invalid", 10, true},
		{"negative invalid", -25, true},
		{"101 invalid", 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Intensity(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("Intensity(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestStrategy(t *testing.T) {
	if err := Strategy("none", "cot", "list1"); err != nil {
		t.Errorf("valid strategy triple rejected: %v", err)
	}
	if err := Strategy("none", "few_shot3", "self_consistency"); err != nil {
		t.Errorf("valid strategy triple rejected: %v", err)
	}
	if err := Strategy("none", "few_shot2", "none"); err == nil {
		t.Error("few_shot2 should be invalid, k must be one of 1,3,5,7")
	}
	if err := Strategy("strip", "none", "none"); err == nil {
		t.Error("unknown preproc should be rejected")
	}
	if err := Strategy("none", "none", "majority"); err == nil {
		t.Error("unknown postproc should be rejected")
	}
}

func TestModel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", "gpt-4o-mini", false},
		{"namespaced", "gwdg.llama-3.3-70b-instruct", false},
		{"org slash", "meta/llama-3-8b", false},
		{"empty", "", true},
		{"leading dash", "-model", true},
		{"space", "gpt 4", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Model(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("Model(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestTemperature(t *testing.T) {
	for _, temp := range []float32{0, 0.7, 1, 2} {
		if err := Temperature(temp); err != nil {
			t.Errorf("Temperature(%v) unexpected error: %v", temp, err)
		}
	}
	for _, temp := range []float32{-0.1, 2.1} {
		if err := Temperature(temp); err == nil {
			t.Errorf("Temperature(%v) should be out of range", temp)
		}
	}
}
