package trend

// chartLayout is the plotly layout shared by every trend chart. The interval
// candlestick switches to closest-point hover so the production hover
// template shows instead of the unified OHLC panel.
func chartLayout(chartType, valueMode string) map[string]any {
	yTitle := "Points"
	if valueMode == ModeInterval {
		yTitle = "Points Produced"
	}
	layout := map[string]any{
		"title":         "",
		"paper_bgcolor": "rgba(255,255,255,0.1)",
		"plot_bgcolor":  "rgba(0,0,0,0)",
		"xaxis": map[string]any{
			"title":     "Date",
			"gridcolor": "rgba(255,255,255,0.08)",
			"showline":  false,
			"zeroline":  false,
			"tickangle": -35,
			"ticks":     "outside",
			"tickcolor": "rgba(255,255,255,0.15)",
			"ticklen":   6,
		},
		"yaxis": map[string]any{
			"title":     yTitle,
			"rangemode": "tozero",
			"gridcolor": "rgba(255,255,255,0.08)",
			"showline":  false,
			"zeroline":  false,
		},
		"legend": map[string]any{
			"orientation": "h",
			"bgcolor":     "rgba(0,0,0,0)",
			"yanchor":     "bottom",
			"y":           1.02,
			"x":           0,
		},
		"margin":    map[string]any{"l": 60, "r": 30, "t": 30, "b": 70},
		"hovermode": "x unified",
		"hoverlabel": map[string]any{
			"bgcolor":     "#1e2533",
			"bordercolor": "#3a4558",
			"font":        map[string]any{"color": "#ffffff"},
		},
		"font":       map[string]any{"family": "Segoe UI, Inter, Arial", "color": "#f0f2f6", "size": 12},
		"transition": map[string]any{"duration": 400, "easing": "cubic-in-out"},
	}
	if chartType == ChartCandlestick && valueMode == ModeInterval {
		layout["hovermode"] = "closest"
	}
	return layout
}

func chartConfig() map[string]any {
	return map[string]any{
		"displaylogo": false,
		"responsive":  true,
		"modeBarButtonsToRemove": []string{
			"zoom2d",
			"pan2d",
			"select2d",
			"lasso2d",
			"autoScale2d",
			"resetScale2d",
			"toggleSpikelines",
		},
		"toImageButtonOptions": map[string]any{"format": "png", "filename": "teamboard_trends_chart"},
	}
}
