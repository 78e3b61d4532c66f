package oracle

// LLM prompt templates for the alignment oracle.

// TranslatePrompt asks for a plain modern rendering of verse lines.
const TranslatePrompt = `Translate the following Italian text to simple, modern English.
Maintain the exact meaning but use clear, straightforward language.

Italian:
%s

Output only the translation, nothing else.`

// ExtractPrompt asks for the span of the prose that means the same as the
// reference sentence.
const ExtractPrompt = `Task: Extract the corresponding text from the Norton English translation.

Reference meaning (modern English):
%s

Source text (Norton's literary translation - extract FROM this text):
%s

INSTRUCTIONS:
1. Read the Norton text carefully
2. Find the portion that means the SAME as the modern translation
3. The wording will be DIFFERENT (literary vs modern)
4. Extract the EXACT text from the Norton passage
5. Start from the very beginning of the Norton text
6. Extract approximately: %s

LENGTH CONSTRAINT:
- Extract ONLY the phrase or clause matching the reference
- Do NOT extract multiple sentences
- When in doubt, extract LESS rather than more
- If no portion of the Norton text matches, answer with an empty string

CRITICAL: Output must be the ACTUAL TEXT from the Norton passage above, not a rephrasing.

Respond in JSON format:
{
  "extracted_text": "<the extracted Norton English text, without quotation marks or formatting>"
}`

// ExtractShorterPrompt re-asks for a span after the previous one was judged
// too long.
const ExtractShorterPrompt = `Modern English translation:
%s

Norton English text (literary translation):
%s

CRITICAL: The previous extraction was INCORRECT because it was too long.

Find the portion of the Norton text that matches the modern translation above.
- Extract ONLY the matching portion, starting at the beginning of the Norton text
- Do NOT include content from other parts of the Norton text
- The Italian has %d line(s), so extract a %s amount

Respond in JSON format:
{
  "extracted_text": "<the extracted Norton English text, without quotation marks or formatting>"
}`

// JudgePrompt asks whether an extracted span conveys the same meaning as
// the reference and the verse.
const JudgePrompt = `Modern English (meaning reference):
%s

Extracted Norton English:
%s

Original Italian (%d line(s)):
%s

Question: Does the extracted Norton English convey the same meaning as the modern translation (and thus the original Italian)?

VALIDATION CRITERIA:
- The Norton text is a literary translation, so different wording is EXPECTED
- Focus on SEMANTIC EQUIVALENCE: does it convey the same basic meaning?
- The extracted text should NOT include content from other Italian lines
- Length should roughly match (%s)

Answer YES if:
- The extracted Norton English conveys the same meaning as the modern translation
- It does NOT include content from other parts of the text

Answer NO if:
- The extraction clearly includes content from OTHER parts of the text
- The extraction is MUCH LONGER or MUCH SHORTER than the reference suggests

When the answer is NO, set "issue" to "LONGER" if the English says more than
the Italian and "SHORTER" if it says less.

Respond in JSON format:
{
  "reason": "<one sentence analyzing whether the English matches the Italian exactly>",
  "answer": "<YES or NO>",
  "issue": "<LONGER, SHORTER or empty>"
}`
