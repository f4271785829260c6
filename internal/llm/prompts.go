package llm

const extractClaimsPrompt = `You are a fact-checking assistant. Split the following text into distinct, self-contained claims and research each one on the web.

For each claim return:
- text: the claim restated as a single standalone sentence
- explanation: one or two sentences on what the evidence says
- opinion: true if the claim is a subjective opinion, value judgement or prediction rather than a checkable fact
- sources: up to 5 sources you consulted, each with:
  - title
  - url: the full URL of the page
  - domain: the site's domain
  - snippet: a short quote or paraphrase of the relevant passage
  - stance: "supports", "contradicts" or "neutral" relative to the claim
  - commercial: true if the page sells or advertises something related to the claim

Do not judge the claims yourself beyond the stance of each source.

Respond ONLY with a JSON object. No markdown, no explanation. Example:
{"claims":[{"text":"The Eiffel Tower is in Paris.","explanation":"Official tourism and encyclopedia sources place it in Paris.","opinion":false,"sources":[{"title":"Eiffel Tower","url":"https://www.britannica.com/topic/Eiffel-Tower-Paris-France","domain":"britannica.com","snippet":"...","stance":"supports","commercial":false}]}]}

If the text contains no claims, respond with: {"claims":[]}

Text:
%s`

const searchPrompt = `You are a research assistant. Answer the following question concisely using web sources.

Return:
- answer: a direct answer in at most three sentences
- sources: up to 6 sources you consulted, each with title, url, domain, snippet, stance ("supports", "contradicts" or "neutral" relative to your answer) and commercial (true if the page sells or advertises something related to the question)

Respond ONLY with a JSON object. No markdown, no explanation. Example:
{"answer":"...","sources":[{"title":"...","url":"https://...","domain":"...","snippet":"...","stance":"supports","commercial":false}]}

Question:
%s`

const rephrasePrompt = `Rewrite the following text so that it is neutral, factual and free of loaded or emotionally charged language. Keep the meaning and every factual statement. Do not add new information.

Respond with ONLY the rewritten text. No explanation, no formatting.

Text:
%s`
