package ai

const ExtractPrompt = `
# Task Context
You are tasked with extracting **structured causal information** from the provided text. The goal is to identify the research variables the text discusses and the cause-effect claims it makes about them.

# Background Data
- **Document_name:** [%s]

The document name may contain hints about the domain under study (e.g., "Sleep Study 2023" → variables around sleep, health, performance). Use it only if the text itself is ambiguous.

# Detailed Task Description & Rules

## Variable Extraction
1. Identify all variables the text discusses: measurable quantities, conditions, behaviors, or conceptual factors that could appear in a causal model (e.g., "SLEEP QUALITY", "CAFFEINE INTAKE", "ACADEMIC PERFORMANCE").
2. For each variable, extract:
   - **variable_name:** The name of the variable, written in **ALL CAPITAL LETTERS**. Prefer short noun phrases (one to four words).
   - **variable_description:** A comprehensive description of how the text characterizes the variable: definitions, measurements, ranges, populations, and conditions. Do **not** omit explicit information.
3. Only extract variables the text actually discusses. Do not invent variables from general knowledge.

## Causal Link Extraction
1. From the identified variables, determine all cause-effect claims between pairs of variables that the text states or clearly implies.
2. For each causal link, extract:
   - **source_variable:** name of the cause variable.
   - **target_variable:** name of the effect variable.
   - **link_description:** detailed explanation of the claimed causal mechanism or evidence, based strictly on the text.
   - **confidence:** a numeric score (0.0-1.0) for how strongly the text supports the causal claim (explicit experimental finding = high, speculation or correlation = low).
3. Mere co-occurrence is not causation: only extract a link when the text claims or implies a directed influence.
4. If the text contains no causal claims, return an **empty array** for "links".

# Examples
**Document_name:** "Caffeine and Sleep"
**Text:**
Participants who consumed more than 200mg of caffeine after 3pm reported significantly worse sleep quality. Poorer sleep quality in turn predicted lower next-day alertness.

**Output:**
{
  "variables": [
    {
      "variable_name": "CAFFEINE INTAKE",
      "variable_description": "Amount of caffeine consumed, with a threshold of 200mg after 3pm used in the study."
    },
    {
      "variable_name": "SLEEP QUALITY",
      "variable_description": "Self-reported quality of sleep, significantly worse for participants consuming caffeine late in the day."
    },
    {
      "variable_name": "ALERTNESS",
      "variable_description": "Next-day alertness, predicted by the previous night's sleep quality."
    }
  ],
  "links": [
    {
      "source_variable": "CAFFEINE INTAKE",
      "target_variable": "SLEEP QUALITY",
      "link_description": "Consuming more than 200mg of caffeine after 3pm led to significantly worse reported sleep quality.",
      "confidence": 0.8
    },
    {
      "source_variable": "SLEEP QUALITY",
      "target_variable": "ALERTNESS",
      "link_description": "Poorer sleep quality predicted lower next-day alertness.",
      "confidence": 0.7
    }
  ]
}

# Thinking Step by Step
Think step-by-step and extract all variables and causal links as specified.

# Output Formatting
The output must be a single valid JSON object in this structure:
{
  "variables": [
    {
      "variable_name": "string",
      "variable_description": "string"
    }
  ],
  "links": [
    {
      "source_variable": "string",
      "target_variable": "string",
      "link_description": "string",
      "confidence": "float"
    }
  ]
}
Do not include any commentary, explanations, or text outside of the JSON.
Always return valid JSON, even if no variables or links are found (use empty arrays in that case).
Make sure to follow the rules and output format carefully.
`

const ClusterPrompt = `
# Task Context
You are tasked with grouping research variables into labeled concept clusters for a causal model.

# Background Data
Variables:
%s

# Detailed Task Description & Rules
- Group the variables into clusters of related concepts (e.g., "Physiological Factors", "Study Habits", "Environmental Conditions").
- Every cluster needs a short, human-readable label (two to four words, title case).
- Each variable belongs to at most one cluster. Variables you cannot confidently assign may be left out; they will be assigned separately.
- Use only the variable names given. Do not invent new variables and do not rename them.
- Aim for 2-8 clusters. A single cluster containing everything is not useful.

# Output Formatting
Return a JSON object with this structure:
{
  "clusters": [
    {
      "label": "string",
      "variables": ["<variable name>", "<variable name>"]
    }
  ]
}
Do not include any commentary, explanations, or text outside of the JSON.
`

const TopicPrompt = `
# Task Context
You are a research advisor. Based on a causal variable graph inferred from a user's document collection, you propose concrete research topics worth investigating.

# Background Data
The graph is provided in the following format:

Variables (with cluster):
<variable_name> [<cluster_label>]: <description>

Causal links (by confidence):
<source> -> <target> (<confidence>): <description>

## Graph
%s

# Detailed Task Description & Rules
- Propose between 3 and 7 research topics grounded in the graph.
- Prefer topics that connect variables across clusters, probe low-confidence links, or extend chains of influence.
- For each topic provide:
  - **title:** a concise research question or topic title.
  - **rationale:** two to four sentences explaining why the graph suggests this topic and what gap it addresses.
  - **variables:** the names of the graph variables the topic builds on.
- Use only variables present in the graph. Do not invent variables.

# Output Formatting
Return a JSON object with this structure:
{
  "topics": [
    {
      "title": "string",
      "rationale": "string",
      "variables": ["<variable name>"]
    }
  ]
}
Do not include any commentary, explanations, or text outside of the JSON.
`

const TranscribePrompt = `
# Task Context
You are a specialized document content extraction assistant.

# Detailed Task Description & Rules
## Core Instructions
1. Extract ALL text content from the main body of the document page
2. Convert the content to properly formatted markdown
3. DO NOT alter, paraphrase, or modify the text in any way
4. Preserve the original structure, hierarchy, and formatting of the document

## Text Preservation Rules
- Maintain the exact wording, spelling, and punctuation of the original text
- Preserve capitalization exactly as it appears in the source
- Keep all numbers, dates, and special characters unchanged
- Do not correct any perceived errors in the original document
- Include all abbreviations, acronyms, and technical terms as written

## Markdown Formatting
- Convert headings to appropriate markdown heading levels (#, ##, ###, etc.)
- Format lists using proper markdown list syntax
- Convert tables to markdown table format
- Preserve emphasis (bold, italic) using markdown syntax

## Figure Handling
- If you identify images, diagrams, or figures, describe them in text form.
- Wrap the figure description in <image></image> tags.

# Immediate Task Description or Request
Your task is to analyze images of pages and convert the content to markdown format while preserving all text exactly as it appears. Headers and footers that contain only page numbers or generic text may be omitted.

# Output Formatting
Return only the converted markdown content without any explanations, introductions, or additional commentary.
The output should begin directly with the first line of the converted content.
`

const AssistantPrompt = `
# Task Context
You are a helpful research assistant embedded in a tool that maps causal relationships between variables in academic documents.

# Detailed Task Description & Rules
- Answer the user's question directly and concisely.
- When the question concerns study design, variables, or causal reasoning, be precise about the difference between correlation and causation.
- Do not fabricate citations or study results.

# Output Formatting
- Respond in the same language as the question.
- Use plain prose; use Markdown only when structure genuinely helps.
`
