package generation

import (
	"fmt"
	"strings"

	"github.com/learnflow/learnflow-api/internal/domain"
)

// System prompts for the writer roles.
const (
	outlineSystemPrompt = `You are a curriculum design expert who breaks complex ` +
		`bodies of knowledge into progressive learning paths. You produce ` +
		`well-structured study outlines that move from fundamentals to advanced topics.`

	articleSystemPrompt = `You are a senior technical writer who explains complex ` +
		`technical concepts in clear, accessible language. You write complete, ` +
		`practical study articles in Markdown.`

	chapterSystemPrompt = `You are a tutorial author who writes detailed study ` +
		`chapters. Every concept is explained thoroughly and every code sample ` +
		`is commented.`

	assistantSystemPrompt = `You are a study assistant. Answer user questions ` +
		`based on the provided article content. Be accurate, concise, and helpful.`

	interviewerSystemPrompt = `You are an experienced technical interviewer. You ` +
		`write probing interview questions and grade candidate answers fairly.`
)

// Outline chapter count bounds requested from the model.
const (
	minOutlineChapters = 5
	maxOutlineChapters = 15
)

func outlinePrompt(topic, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a structured study outline for the following topic.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	if description != "" {
		fmt.Fprintf(&b, "Additional notes: %s\n", description)
	}
	fmt.Fprintf(&b, `
Requirements:
1. Produce %d to %d chapters
2. Order them from fundamentals to advanced topics
3. Cover the core concepts of the topic
4. Give every chapter a title and a short description

Return strictly the following JSON format:
{
    "title": "full title of the study document",
    "description": "overall description of the document",
    "chapters": [
        {
            "id": 1,
            "title": "chapter title",
            "description": "short chapter description",
            "keywords": ["keyword1", "keyword2"]
        }
    ]
}

Return only the JSON, nothing else.`, minOutlineChapters, maxOutlineChapters)
	return b.String()
}

func articlePrompt(topic, description, references string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a study article about %q.", topic)
	if description != "" {
		fmt.Fprintf(&b, " Requirements: %s.", description)
	}
	if references != "" {
		fmt.Fprintf(&b, "\n\nReference material:\n%s\n", references)
	}
	b.WriteString(`

Article requirements:
- 2000 to 4000 words, rich and practical content
- Include code samples where applicable
- Clear structure that builds up progressively

Output format (Markdown):

# [title]

> **Overview**: [short summary]

## 1. Introduction
## 2. Core Concepts
## 3. Practical Application
## 4. Summary

Output the article content directly, with no extra commentary.`)
	return b.String()
}

func chapterPrompt(docCtx ChapterContext, ch domain.ChapterSpec, references string) string {
	var overview strings.Builder
	for _, c := range docCtx.Chapters {
		fmt.Fprintf(&overview, "Chapter %d: %s\n", c.ID, c.Title)
	}

	var b strings.Builder
	b.WriteString("Write one chapter of a study document.\n\n")
	fmt.Fprintf(&b, "Document: %s\n", docCtx.Title)
	fmt.Fprintf(&b, "Table of contents:\n%s\n", overview.String())
	fmt.Fprintf(&b, "Current chapter: Chapter %d - %s\n", ch.ID, ch.Title)
	fmt.Fprintf(&b, "Description: %s\n", ch.Description)
	if references != "" {
		fmt.Fprintf(&b, "%s\n", references)
	}
	fmt.Fprintf(&b, `
Principles:
1. Explain every concept in depth: what it is, why it exists, how to use it, and what to watch out for
2. Comment every line of sample code
3. Progress from simple to complex, using everyday analogies for abstract ideas

Output format (Markdown):

# Chapter %d %s

> **Chapter summary**: [core content of this chapter]

## Learning Goals

## %d.1 [concept]
## %d.2 [concept]
## %d.3 Code Samples
## %d.4 Exercises

## Chapter Recap

Output the chapter content directly.`, ch.ID, ch.Title, ch.ID, ch.ID, ch.ID, ch.ID)
	return b.String()
}

// sourceLimit bounds how much article text is embedded in assistant prompts.
const sourceLimit = 6000

func answerPrompt(articleContent, question string) string {
	return fmt.Sprintf(`Answer the user's question based on the article below.

## Article
%s

## Question
%s

Give an accurate, helpful answer:`, truncate(articleContent, sourceLimit), question)
}

func interviewPrompt(articleContent string, count int) string {
	return fmt.Sprintf(`Based on the article below, write %d high-quality job interview questions.

## Article
%s

Return strictly a JSON array in the following format:
[
    {"question": "the interview question", "reference_answer": "a model answer in Markdown"}
]

Return only the JSON array, nothing else.`, count, truncate(articleContent, sourceLimit))
}

func gradePrompt(question, referenceAnswer, userAnswer string) string {
	return fmt.Sprintf(`You are a senior technical interviewer. Evaluate the following interview answer.

## Question
%s

## Reference answer
%s

## Candidate answer
%s

Return strictly the following JSON format:
{"score": 85, "feedback": "### Score: 85\n\n**Strengths:**\n- ...\n\n**Gaps:**\n- ...\n\n**Suggested answer:**\n..."}

score is an integer from 0 to 100. feedback is a detailed Markdown review with a better answer suggestion.`,
		question, referenceAnswer, userAnswer)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
