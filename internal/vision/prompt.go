package vision

// ExtractionPrompt instructs the model to transcribe vocabulary entries from
// a scanned page as a YAML list. The rules about fake data matter: smaller
// vision models readily hallucinate placeholder entries when the scan is
// unreadable.
const ExtractionPrompt = `You are analyzing a scanned vocabulary page.

CRITICAL RULES:
1. Extract ONLY real content you can see in the provided image.
2. DO NOT generate placeholder data like "word1", "definition1", "example1".
3. If you cannot read the image clearly, reply with an empty YAML list: []

TASK:
Examine the image and extract each vocabulary entry: the word, its meaning,
and an example sentence if one is shown. Reply with YAML only, no prose.

YAML FORMAT:
- word: magnificent
  meaning: extremely beautiful or impressive
  example: The view from the summit was magnificent.
- word: scatter
  meaning: to throw loosely in different directions
  example: She scattered the seeds across the field.

Extract ONLY what you actually see in the image.`
