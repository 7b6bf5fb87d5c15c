// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prompt

import "fmt"

// Languages are the target languages for the language perturbation. The
// generator picks one per variant.
var Languages = []string{"German", "French", "Spanish", "Italian", "Portuguese"}

// DefaultIntensity applies when a request leaves the intensity unset.
const DefaultIntensity = 50

// exampleQuestion anchors every worked example across the perturbation
// templates so intensity levels stay comparable.
const exampleQuestion = "Does regular smoking increase the risk of developing lung cancer?"

// SynonymPrompt asks the model to replace a share of the words with
// synonyms while keeping the rest verbatim.
func SynonymPrompt(question string, intensity int) string {
	numWords, remainingWords := splitWords(question, intensity)
	return fmt.Sprintf(
		"Given the following text:\n%s\n"+
			"Instruction: Replace %d of the words (%d%%) in the following text "+
			"with a contextually appropriate synonym that preserves the original meaning and "+
			"does not make the wording more general or less specific. The rest of the text "+
			"(%d words) should remain exactly as it is. Enclose the result in "+
			"the tags as demonstrated in the example.\n"+
			"Example with replacing %d words:\n"+
			"Question: %s\n"+
			"<result>%s</result>",
		question, numWords, intensity, remainingWords,
		scaledWords(10, intensity), exampleQuestion, synonymExamples[intensity],
	)
}

// LanguagePrompt asks the model to translate a share of the words into
// the given target language.
func LanguagePrompt(question string, intensity int, language string) string {
	numWords, remainingWords := splitWords(question, intensity)
	return fmt.Sprintf(
		"Given the following text:\n%s\n"+
			"Instruction: Translate %d of the words (%d%%) in the following "+
			"text into %s. Ensure that the overall meaning is preserved and that all "+
			"remaining text (%d words) stay unchanged in English. Enclose the "+
			"result in the tags as demonstrated in the example.\n"+
			"Example with translating %d words:\n"+
			"Question: %s\n"+
			"<result>%s</result>",
		question, numWords, intensity, language, remainingWords,
		scaledWords(10, intensity), exampleQuestion, languageExamples[intensity],
	)
}

// ParaphrasePrompt rewrites the question with intensity-scaled freedom.
func ParaphrasePrompt(question string, intensity int) string {
	return instructionPrompt(question, paraphraseInstructions[intensity], paraphraseExamples[intensity], "")
}

// SentenceInjectionPrompt adds irrelevant but related phrases or sentences.
func SentenceInjectionPrompt(question string, intensity int) string {
	return instructionPrompt(question, injectionInstructions[intensity], injectionExamples[intensity], "")
}

// BiasPrompt rewrites the question to steer the answer in a misleading
// direction while keeping the original question recognizable.
func BiasPrompt(question string, intensity int) string {
	constraint := " The original question must remain part of the text, either in its " +
		"exact wording or as a paraphrase. No additional questions should be introduced."
	return instructionPrompt(question, biasInstructions[intensity], biasExamples[intensity], constraint)
}

func instructionPrompt(question, instruction, example, constraint string) string {
	return fmt.Sprintf(
		"Given the following text:\n%s\n"+
			"Instruction: %s%s Enclose the result in the tags as demonstrated in the example.\n"+
			"Example:\n"+
			"Question: %s\n"+
			"<result>%s</result>",
		question, instruction, constraint, exampleQuestion, example,
	)
}

func splitWords(question string, intensity int) (numWords, remainingWords int) {
	total := wordCount(question)
	numWords = scaledWords(total, intensity)
	remainingWords = total - numWords
	if remainingWords > total-1 {
		remainingWords = total - 1
	}
	return numWords, remainingWords
}

var synonymExamples = map[int]string{
	25:  "Does habitual smoking increase the risk of getting lung cancer?",
	50:  "Can habitual smoking raise the risk of getting pulmonary cancer?",
	75:  "Can habitual tobacco use raise the chance of getting pulmonary cancer?",
	100: "Can habitual tobacco use raise one's chance for getting pulmonary carcinoma?",
}

// The language examples target German regardless of the language picked at
// runtime; they only demonstrate the mixing ratio.
var languageExamples = map[int]string{
	25:  "Does gewöhnliches smoking increase das risk of developing lung cancer?",
	50:  "Does gewöhnliches smoking erhöhen das risk of entwickeln lung Krebs?",
	75:  "Kann gewöhnliches smoking erhöhen das risk zu entwickeln lung Krebs?",
	100: "Kann gewöhnliches Rauchen das Risiko erhöhen Lungenkrebs zu entwickeln?",
}

var paraphraseInstructions = map[int]string{
	25: "Paraphrase the following text with light changes. Keep the original meaning " +
		"and structure as close as possible.",
	50: "Rewrite the text with moderate changes in wording and phrasing while " +
		"preserving the original meaning.",
	75: "Paraphrase the text by making strong alterations to its structure and " +
		"vocabulary, but keep the core meaning intact.",
	100: "Completely rephrase the text with very strong changes in structure and " +
		"wording, maintaining the original idea.",
}

var paraphraseExamples = map[int]string{
	25: "Does habitual smoking increase the likelihood of developing lung cancer?",
	50: "Can smoking on a regular basis raise the chance of getting lung cancer?",
	75: "Is there a higher risk of lung cancer associated with consistent tobacco use?",
	100: "To what extent does frequent tobacco consumption contribute to the " +
		"development of cancer in the lungs?",
}

var injectionInstructions = map[int]string{
	25: "Insert a short, contextually related phrase into the text that is " +
		"irrelevant for answering the question. The phrase must not introduce new " +
		"meaning or a question. Ensure that the question is neither made more " +
		"specific nor more general, and that the addition do not implicitly answer it.",
	50: "Insert a short, contextually related phrase into the text that is " +
		"irrelevant for answering the question. Then, add one short, standalone " +
		"sentence that is also contextually related but irrelevant for answering the " +
		"question. Both the phrase and the sentence must not introduce new meaning or " +
		"a question. Ensure that the question is neither made more specific nor more " +
		"general, and that the additions do not implicitly answer it.",
	75: "Insert a contextually related phrase into the text that is irrelevant for " +
		"answering the question. Then, add one short, standalone sentence that " +
		"contains unnecessary but related information. Both the phrase and the " +
		"sentence must not introduce new meaning or a question. Ensure that the " +
		"question is neither made more specific nor more general, and that the " +
		"additions do not implicitly answer it.",
	100: "Insert a contextually related phrase into the text that is irrelevant for " +
		"answering the question. Then, add one standalone sentence that contains " +
		"unnecessary but related information. Both the phrase and the sentence must " +
		"not introduce new meaning or a question. Ensure that the question is neither " +
		"made more specific nor more general, and that the additions do not " +
		"implicitly answer it.",
}

var injectionExamples = map[int]string{
	25: "Does regular smoking, as many individuals do, increase the risk of developing " +
		"lung cancer?",
	50: "Does regular smoking, as many individuals do, increase the risk of developing " +
		"lung cancer? I'm really interested in the answers to this question.",
	75: "Does regular smoking, as many individuals routinely do without much thought, " +
		"increase the risk of developing lung cancer? I'm really interested in the " +
		"answers to this question.",
	100: "Does regular smoking, as many individuals routinely do without much thought, " +
		"increase the risk of developing lung cancer? I'm really interested in the " +
		"answers to this question as it affects many people.",
}

var biasInstructions = map[int]string{
	25: "Rewrite the following text while keeping its original meaning mostly " +
		"intact, but introduce a slight bias that could mislead the model toward a " +
		"less accurate answer. Use subtle shifts in tone or emphasis, such as " +
		"downplaying key concepts or inserting mild doubt. The changes should be " +
		"minimal but capable of affecting how the question is interpreted.",
	50: "Rewrite the following text in a way that preserves its general structure, " +
		"but introduces a moderate bias by subtly shifting the focus toward " +
		"alternative explanations or less relevant factors. Use selective framing or " +
		"emotionally suggestive language to guide the model away from the most " +
		"accurate or direct answer.",
	75: "Rewrite the following text to maintain its core meaning, but strongly " +
		"bias it by introducing misleading framing, emotionally loaded wording, or " +
		"alternative explanations that draw attention away from the correct answer. " +
		"The phrasing should clearly steer the model toward a less accurate or " +
		"secondary response, while sounding plausible.",
	100: "Completely rewrite the following text using strong bias in framing, tone, " +
		"and content to redirect the model’s attention away from the main issue. " +
		"Emphasize unrelated causes, cast doubt on well-established facts, or shift " +
		"the question’s perspective so that the model is likely to provide a " +
		"misleading, inaccurate, or incomplete response. The question should still " +
		"appear logically valid and contextually related.",
}

var biasExamples = map[int]string{
	25: "Does regular smoking, which some people tolerate for decades without major " +
		"health problems, really increase the risk of developing lung cancer?",
	50: "Although other factors like air pollution and genetics are known to play a " +
		"role, does regular smoking still increase the risk of developing lung cancer " +
		"to the extent that’s often claimed?",
	75: "Considering how many lifelong smokers never develop the disease and how " +
		"complex the causes of lung cancer are, does regular smoking actually " +
		"increase the risk of developing it in a significant way?",
	100: "Given that lung cancer can also occur in non-smokers and that smoking is " +
		"just one of many possible contributing factors, does regular smoking truly " +
		"increase the risk of developing lung cancer—or is that an oversimplified " +
		"narrative?",
}
