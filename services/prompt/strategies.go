// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prompt

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// DatasetAnswerLengths holds the mean reference-answer word count per
// dataset, used by the length constraint.
var DatasetAnswerLengths = map[string]int{
	"eli5":             99,
	"gooaq":            44,
	"msmarco":          17,
	"naturalquestions": 10,
	"squad2":           6,
}

// PreprocPrompt returns the rewriting prompt for a preprocessing strategy
// and whether a model call is required. The "none" strategy needs no call.
func PreprocPrompt(preproc, question string) (string, bool, error) {
	var instruction string
	switch preproc {
	case "none":
		return "", false, nil
	case "translate":
		instruction = "If the question is not fully in English, translate it into English while preserving the original wording " +
			"as closely as possible. " +
			"If it is already entirely in English, leave it unchanged. Output only the final text inside " +
			"<result> and </result> tags."
	case "filter":
		instruction = "Remove all biased or irrelevant information from the question, including any details that are not " +
			"essential to understanding or answering it. " +
			"Preserve the core meaning and the essential question exactly. Output only the final text inside " +
			"<result> and </result> tags."
	case "correct":
		instruction = "Correct all spelling mistakes in the text, including letter swaps, missing letters, extra letters, " +
			"or incorrect capitalization. " +
			"If a word is unclear, infer the most likely intended word based on context. " +
			"Also standardize capitalization and ensure punctuation is meaningful and contextually appropriate. " +
			"Do not change word order, wording, or phrasing except as required to fix spelling, capitalization, " +
			"and punctuation. " +
			"Do not add any new words that were not present in the original text. " +
			"Output only the corrected text inside <result> and </result> tags."
	default:
		return "", false, fmt.Errorf("invalid preprocessing strategy %q", preproc)
	}
	return fmt.Sprintf("%s\n\nQuestion: %s", instruction, question), true, nil
}

// InprocSuffix returns the reasoning-guidance text appended to the question
// for an in-processing strategy. few_shotN draws n exemplars through rng.
func InprocSuffix(inproc string, rng *rand.Rand) (string, error) {
	switch inproc {
	case "none", "direct":
		return "", nil
	case "translate":
		return "\nIf the question is not fully in English, first translate it into English while preserving the original wording as " +
			"closely as possible, then answer the translated question. Any constraints given apply only " +
			"to the final answer. Place the final answer within <result> and </result> tags.", nil
	case "cot":
		return "\nLet's think step by step. Any constraints given apply only to the final answer, not to the reasoning steps. " +
			"Place the final answer within <result> and </result> tags.", nil
	case "subproblems":
		return "\nYou are an expert in causal reasoning. " +
			"Your task is to solve the causal question by breaking it down into logical subproblems and reasoning through each one step by step. " +
			"Follow these steps:\n" +
			"1. Decompose the main question into distinct subproblems, identifying possible causes, mechanisms, and potential effects.\n" +
			"2. For each subproblem, provide a concise, evidence-based reasoning path, clearly explaining the logic behind your conclusions.\n" +
			"3. Once all subproblems are analyzed, extract the statements or mechanisms that are most consistently supported across your reasoning.\n" +
			"4. Based on these consistent insights, generate a final, consolidated, factual answer and enclose it " +
			"within <result> and </result> tags. Any constraints provided apply only to the final answer, not to the " +
			"intermediate reasoning.", nil
	case "few_shot_gooaq":
		return fewShotBlock(gooaqExemplars), nil
	case "robust":
		return "\nYou are an expert in robust causal question answering. Provide a clear, consistent, and coherent answer " +
			"that remains robust to variations in the wording or phrasing of the question.", nil
	}
	if n, ok := fewShotCount(inproc); ok {
		return fewShotBlock(sampleExemplars(rng, n)), nil
	}
	return "", fmt.Errorf("invalid in-processing strategy %q", inproc)
}

// PostprocConstraint returns the answer-format constraint prepended to the
// question for a postprocessing strategy. The self_consistency strategy has
// no constraint text; the harness handles its extra sampling.
func PostprocConstraint(postproc, dataset string) (string, error) {
	switch postproc {
	case "none", "self_consistency":
		return "", nil
	case "length":
		length, ok := DatasetAnswerLengths[dataset]
		if !ok {
			return "", fmt.Errorf("no answer length known for dataset %q", dataset)
		}
		return fmt.Sprintf("Constraint: Answer the question using %d words.\n", length), nil
	case "list1":
		return "Constraint: Output only a comma-separated list of causes or effects in the format A, B, C, \u2026 " +
			"For binary questions, output only \u2018yes\u2019 or \u2018no\u2019 (followed by a list of causes or " +
			"effects for explanation)." +
			"No additional text.\n", nil
	case "list2":
		return "Constraint: Output only a comma-separated list of causes or effects in the format A, B, C, \u2026 " +
			"For binary questions, output only \u2018yes\u2019 or \u2018no\u2019 (followed by a list of causes or " +
			"effects for explanation)." +
			"Do not list any cause or effect more than once and add no additional text.\n", nil
	default:
		return "", fmt.Errorf("invalid postprocessing strategy %q", postproc)
	}
}

// ConsolidationPrompt merges independently sampled answers into the final
// self-consistency query.
func ConsolidationPrompt(answers []string) string {
	var b strings.Builder
	b.WriteString("Below are three answers generated independently. " +
		"Identify the statements or ideas that recur most frequently across them. " +
		"Using only those recurring statements, write a final, consolidated answer " +
		"that is clear, coherent, and consistent.\n\n")
	for i, ans := range answers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Answer %d:\n%s", i+1, ans)
	}
	b.WriteString("\n\nPlease provide the final consolidated answer in <result> and </result> tags.")
	return b.String()
}

// fewShotCount parses strategies of the form few_shot1 .. few_shot9.
func fewShotCount(inproc string) (int, bool) {
	rest, ok := strings.CutPrefix(inproc, "few_shot")
	if !ok || len(rest) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > len(mixedExemplars) {
		return 0, false
	}
	return n, true
}

func fewShotBlock(exemplars []string) string {
	return "\n\nHere are some examples of questions and their answers:\n" +
		strings.Join(exemplars, "\n") +
		"\n\nNow answer the given question based on the examples and constraints provided."
}

func sampleExemplars(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(mixedExemplars))
	picked := make([]string, n)
	for i := 0; i < n; i++ {
		picked[i] = mixedExemplars[perm[i]]
	}
	return picked
}

// mixedExemplars spans all source datasets.
var mixedExemplars = []string{
	"Question: Why do human arms sway naturally back and forth as we walk? \n" +
		"Answer: It makes us more energy efficient as two legged animals. Makes it a lot easier to walk. In fact, I read somewhere that purposely not swinging your arms is similar to wearing a 70lbs pack. " +
		"Obviously that number would be different for everyone since we are not all the same size, shape, and weight.",

	"Question: why is magnesium good for muscles?\n" +
		"Answer: magnesium is absolutely necessary for proper muscle function. it works with other essential minerals in your body to keep the muscles loose and flexible. " +
		"when you exercise or do some kind of physical activity, magnesium relaxes your muscles and controls their contractions.",

	"Question: chemical and biological causes for borderline personality disorder\n" +
		"Answer: mood, thinking, behavior, personal relations, and self-image.",

	"Question: why did the us navy stop using battleships?\n" +
		"Answer: the increasing importance of the aircraft carrier",

	"Question: why were foxes originally hunted?\n" +
		"Answer: form of vermin control to protect livestock",

	"Question: How come that many people get creative thoughts when they try to sleep?\n" +
		"Answer: When you're falling asleep, your brain receives fewer external sensory inputs (like sounds or sights), so it's free to wander and make new connections\u2014similar to when you're in the shower.",

	"Question: Can waist trainers cause back pain?\n" +
		"Answer: Yes, wearing waist trainers can weaken your back and core muscles over time, since the corset supports your posture instead of your muscles doing the job.",

	"Question: What is caused by eating red meat?\n" +
		"Answer: Regularly eating large amounts of red or processed meat has been linked to an increased risk of certain cancers, like colorectal cancer.",

	"Question: Why are some cats born with extra toes?\n" +
		"Answer: It's caused by a harmless genetic condition called polydactyly, which results in more than the usual number of toes on a cat\u2019s paws.",
}

// gooaqExemplars keeps the few-shot pool in-domain for the gooaq split.
var gooaqExemplars = []string{
	"Question: do birth control pills cause weight gain?\n" +
		"Answer: it's often a temporary side effect that's due to fluid retention, not extra fat. a review of 44 studies showed no evidence that birth control pills caused weight gain in most women. " +
		"and, as with other possible side effects of the pill, any weight gain is generally minimal and goes away within 2 to 3 months.",

	"Question: why amsterdam is so expensive?\n" +
		"Answer: the main thing that's expensive in amsterdam is the accommodation - the rest is average/on par with the rest of western europe and much more affordable than london. " +
		"the reason accommodation is so expensive is simply economics: high demand (year-round) and very limited quantity.",

	"Question: why is my phone youtube so slow?\n" +
		"Answer: the reason for your slow youtube experience is most likely your internet connection. ... this means if your connection is spotty or intermittent, " +
		"you will have a poor youtube experience. your device isn't able to get the data packets from the server faster enough to give you a smooth video streaming experience.",

	"Question: what happens to your body if you go vegan?\n" +
		"Answer: within a few months, a well-balanced vegan diet which is low in salt and processed food may have impressive benefits for cardiovascular health, " +
		"helping to prevent heart disease, stroke and reducing the risk of diabetes.",

	"Question: what is the major cause of greenhouse effect?\n" +
		"Answer: greenhouse effect, a warming of earth's surface and troposphere (the lowest layer of the atmosphere) caused by the presence of water vapour, carbon dioxide, methane, and certain other gases in the air. " +
		"of those gases, known as greenhouse gases, water vapour has the largest effect.",
}
