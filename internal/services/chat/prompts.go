package chat

// rewriteInstruction turns the latest user turn plus the conversation so far
// into a standalone search query. The model must return only the query.
const rewriteInstruction = "Given the above conversation, generate a search query to look up information relevant to the conversation. Return only the search query, with no commentary."

// answerSystemTemplate grounds the answer generation in the retrieved
// context. The placeholder is replaced with the concatenated chunk text;
// when retrieval finds nothing the context block is left empty.
const answerSystemTemplate = "Answer the user's questions based on the below context. If the context does not contain the answer, say so instead of guessing.\n\nContext:\n%s"
