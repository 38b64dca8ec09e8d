package processors

import (
	"fmt"

	"videoInsight/core"
)

// System and user instruction templates for the segment summarizer.
// Six fixed combinations: two languages by three detail levels, each
// with its own word-count ceiling (300/150/80).

func systemPrompt(language core.Language) string {
	if language == core.LanguageArabic {
		return "أنت مساعد ذكي يلخص مقاطع فيديو طويلة بشكل احترافي باللغة العربية."
	}
	return "You are a smart assistant that summarizes long videos professionally in English."
}

const (
	detailedInstructionAr = `لخص هذا الجزء من الفيديو بتفصيل:
- قدم عنوانًا قصيرًا مناسبًا.
- ثم أضف ملخصًا يغطي جميع الأفكار المهمة.
- لا تتجاوز 300 كلمة.
النص:
%s
`
	detailedInstructionEn = `Summarize this part of the video in detail:
- Provide a short appropriate title.
- Then add a detailed summary covering all key points.
- Do not exceed 300 words.
Text:
%s
`
	mediumInstructionAr = `لخص هذا الجزء من الفيديو بشكل متوسط:
- قدم عنوانًا قصيرًا مناسبًا.
- ثم أضف ملخصًا متوسطًا يغطي النقاط الرئيسية فقط.
- لا تتجاوز 150 كلمة.
النص:
%s
`
	mediumInstructionEn = `Summarize this part of the video moderately:
- Provide a short appropriate title.
- Then add a medium summary covering the main points only.
- Do not exceed 150 words.
Text:
%s
`
	shortInstructionAr = `لخص هذا الجزء من الفيديو باختصار شديد:
- قدم عنوانًا قصيرًا مناسبًا.
- ثم أضف ملخصًا مختصرًا جدًا يغطي أهم فكرة فقط.
- لا تتجاوز 80 كلمة.
النص:
%s
`
	shortInstructionEn = `Summarize this part of the video very briefly:
- Provide a short appropriate title.
- Then add a very brief summary covering the main idea only.
- Do not exceed 80 words.
Text:
%s
`
)

func segmentPrompt(language core.Language, detail core.DetailLevel, chunk string) string {
	var template string
	switch detail {
	case core.DetailDetailed:
		template = detailedInstructionEn
		if language == core.LanguageArabic {
			template = detailedInstructionAr
		}
	case core.DetailShort:
		template = shortInstructionEn
		if language == core.LanguageArabic {
			template = shortInstructionAr
		}
	default:
		template = mediumInstructionEn
		if language == core.LanguageArabic {
			template = mediumInstructionAr
		}
	}
	return fmt.Sprintf(template, chunk)
}
