// Package vision is the inference boundary: one preprocessed image in, the
// model's raw textual reply out.
//
// Two backends implement the Client interface. The Ollama client talks to a
// local server's chat API with retry and backoff; the Gemini client uses the
// hosted API. Both run near-deterministic sampling so repeated runs over the
// same scan produce stable extractions. Interpreting the reply belongs to
// the parse package.
package vision
