package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/docs"
	"github.com/etnz/folio/renderer"
	"github.com/etnz/folio/watchlist"
	"google.golang.org/genai"
)

// Books gives read access to the reconciled portfolio.
type Books interface {
	Load(ctx context.Context) (*folio.Snapshot, error)
}

// Newsroom gives read access to the news feed of the watchlist.
type Newsroom interface {
	Feed(ctx context.Context) watchlist.Feed
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand how his portfolio performs and what the news
			say about the companies and sectors he follows.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.

			The user will assume that you know about his tickers, ask the Accountant first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns the expert grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAccountant returns the expert reading the user's portfolio and news feed.
func NewAccountant(model string, books Books, news Newsroom) *Expert {
	lib := accountantTools(books, news)

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He knows the user's portfolio: lots held, their cost basis,
		current value and profit or loss, the cash balance, the allocation and the value history.
		He also reads the news feed of the user's watchlist.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's portfolio.
				You know how to use the Tools to extract relevant information about the user's portfolio and wealth.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about
				  - the lots held
				  - the portfolio summary and allocation
				  - the value history, of the portfolio or of a single symbol
				  - the news of the watchlist
				When a figure surprises you, read the documentation topic explaining how it is computed.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func accountantTools(books Books, news Newsroom) []Function {
	return []Function{
		tool("Holdings",
			"Holdings lists the lots held with their quantity, cost basis, current value and profit or loss, and the cash balance.",
			nil, "A markdown table of the lots.",
			func(ctx context.Context, args map[string]any) (string, error) {
				s, err := books.Load(ctx)
				if err != nil {
					return "", fmt.Errorf("could not load portfolio: %w", err)
				}
				return renderer.RenderHoldings(s), nil
			}),
		tool("Summary",
			"Summary gives the portfolio cost basis, market value, profit or loss, and the allocation between stocks, bonds, crypto and cash.",
			nil, "A markdown summary of the portfolio.",
			func(ctx context.Context, args map[string]any) (string, error) {
				s, err := books.Load(ctx)
				if err != nil {
					return "", fmt.Errorf("could not load portfolio: %w", err)
				}
				return renderer.RenderSummary(s), nil
			}),
		tool("History",
			"History gives the value of the portfolio over time, or the value of the lots of a single symbol when one is given.",
			map[string]*genai.Schema{
				"symbol": {Type: genai.TypeString, Description: "Optional ticker to restrict the history to."},
			},
			"A markdown table of dated values.",
			func(ctx context.Context, args map[string]any) (string, error) {
				s, err := books.Load(ctx)
				if err != nil {
					return "", fmt.Errorf("could not load portfolio: %w", err)
				}
				symbol, err := optionalString(args, "symbol")
				if err != nil {
					return "", err
				}
				if symbol == "" {
					return renderer.RenderHistory("Portfolio Value", s.History), nil
				}
				var b strings.Builder
				for _, m := range s.Holdings {
					if !strings.EqualFold(m.Symbol, symbol) {
						continue
					}
					b.WriteString(renderer.RenderHistory(fmt.Sprintf("%s lot %s", m.Symbol, m.ID), folio.AssetHistory(m, s.Taken)))
					b.WriteString("\n")
				}
				if b.Len() == 0 {
					return "", fmt.Errorf("no lot of %q in the portfolio", symbol)
				}
				return b.String(), nil
			}),
		tool("News",
			"News lists the latest articles about the symbols and sectors of the user's watchlist.",
			nil, "A markdown list of articles.",
			func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.RenderNews(news.Feed(ctx)), nil
			}),
		tool("Documentation",
			"Documentation returns a documentation topic explaining how figures are computed. Use 'readme' to list the topics.",
			map[string]*genai.Schema{
				"topic": {Type: genai.TypeString, Description: "The topic name, e.g. reconciliation, history, news, cash."},
			},
			"The markdown documentation topic.",
			func(ctx context.Context, args map[string]any) (string, error) {
				topic, err := optionalString(args, "topic")
				if err != nil {
					return "", err
				}
				if topic == "" {
					topic = "readme"
				}
				return docs.GetTopic(topic)
			}),
	}
}

// tool builds a Func from a plain function returning markdown.
func tool(name, description string, params map[string]*genai.Schema, response string, f func(context.Context, map[string]any) (string, error)) *Func {
	if params == nil {
		params = map[string]*genai.Schema{}
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: params},
			Response:    &genai.Schema{Type: genai.TypeString, Description: response},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := f(ctx, args)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, out)
		},
	}
}

func optionalString(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return strings.TrimSpace(s), nil
}
