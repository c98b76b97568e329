package report

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// HTMLReporter formats run results as HTML
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// Format formats run results as HTML and writes to the writer
func (r *HTMLReporter) Format(res *results.Results, writer io.Writer) error {
	files := res.GetFiles()

	if err := r.writeHeader(res, writer); err != nil {
		return err
	}

	if err := r.writeSummary(res, writer); err != nil {
		return err
	}

	for _, file := range files {
		if err := r.writeFileDetail(file, res.Files[file], writer); err != nil {
			return err
		}
	}

	return r.writeFooter(writer)
}

// writeHeader writes the HTML document header with CSS
func (r *HTMLReporter) writeHeader(res *results.Results, writer io.Writer) error {
	timestamp := time.Now().Format(time.RFC1123)
	if !res.Timestamp.IsZero() {
		timestamp = res.Timestamp.Format(time.RFC1123)
	}

	mode := "fix"
	if res.CheckOnly {
		mode = "check"
	}

	_, err := fmt.Fprintf(writer, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>erdfix Comment Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; background: #f5f5f5; color: #333; }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        header { background: #2c3e50; color: white; padding: 30px 0; margin-bottom: 30px; }
        header h1 { font-size: 2.5em; margin-bottom: 10px; }
        header .meta { opacity: 0.8; font-size: 0.9em; }
        .summary { background: white; border-radius: 8px; padding: 25px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .summary h2 { margin-bottom: 20px; color: #2c3e50; }
        .summary-stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; }
        .stat-card { background: #f8f9fa; padding: 20px; border-radius: 6px; border-left: 4px solid #3498db; }
        .stat-card .label { font-size: 0.85em; color: #7f8c8d; text-transform: uppercase; letter-spacing: 0.5px; margin-bottom: 8px; }
        .stat-card .value { font-size: 2em; font-weight: bold; color: #2c3e50; }
        .file-detail { background: white; border-radius: 8px; padding: 25px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .file-detail h3 { margin-bottom: 15px; color: #2c3e50; font-family: 'Courier New', monospace; }
        .status { font-weight: bold; padding: 4px 12px; border-radius: 4px; font-family: sans-serif; font-size: 0.8em; }
        .status.fixed { background: #d4edda; color: #155724; }
        .status.unchanged { background: #e2e3e5; color: #383d41; }
        .status.failed { background: #f8d7da; color: #721c24; }
        .error { color: #721c24; margin-bottom: 15px; }
        table { width: 100%%; border-collapse: collapse; font-size: 0.9em; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ecf0f1; vertical-align: top; }
        td.line { text-align: right; color: #7f8c8d; width: 60px; }
        td code { font-family: 'Courier New', monospace; white-space: pre-wrap; }
        tr.truncated td.comment { background: #fff3cd; }
        footer { text-align: center; padding: 30px 0; color: #7f8c8d; font-size: 0.9em; }
    </style>
</head>
<body>
    <header>
        <div class="container">
            <h1>erdfix Comment Report</h1>
            <div class="meta">Generated: %s | Mode: %s | Version: %s</div>
        </div>
    </header>
    <div class="container">
`, timestamp, mode, html.EscapeString(res.Version))
	return err
}

// writeSummary writes the run summary section
func (r *HTMLReporter) writeSummary(res *results.Results, writer io.Writer) error {
	s := res.Summarize()

	_, err := fmt.Fprintf(writer, `        <section class="summary">
            <h2>Summary</h2>
            <div class="summary-stats">
                <div class="stat-card">
                    <div class="label">Files</div>
                    <div class="value">%d</div>
                </div>
                <div class="stat-card">
                    <div class="label">Fixed / Unchanged / Failed</div>
                    <div class="value">%d / %d / %d</div>
                </div>
                <div class="stat-card">
                    <div class="label">Comments</div>
                    <div class="value">%d</div>
                </div>
                <div class="stat-card">
                    <div class="label">Truncated</div>
                    <div class="value">%d</div>
                </div>
            </div>
        </section>

`, s.TotalFiles, s.FixedFiles, s.UnchangedFiles, s.FailedFiles, s.Splices, s.Truncated)
	return err
}

// writeFileDetail writes the spliced comments of a single file
func (r *HTMLReporter) writeFileDetail(file string, fr results.FileResult, writer io.Writer) error {
	_, err := fmt.Fprintf(writer, `        <section class="file-detail">
            <h3>%s <span class="status %s">%s</span></h3>
`, html.EscapeString(file), fr.Status, fr.Status)
	if err != nil {
		return err
	}

	if fr.Error != "" {
		if _, err := fmt.Fprintf(writer, "            <div class=\"error\">%s</div>\n", html.EscapeString(fr.Error)); err != nil {
			return err
		}
	}

	if len(fr.Splices) > 0 {
		_, err := io.WriteString(writer, `            <table>
                <tr><th>Line</th><th>Pass</th><th>Object</th><th>Comment</th><th>Rewritten</th></tr>
`)
		if err != nil {
			return err
		}

		for _, s := range fr.Splices {
			rowClass := ""
			if s.Truncated {
				rowClass = "truncated"
			}
			_, err := fmt.Fprintf(writer, `                <tr class="%s">
                    <td class="line">%d</td>
                    <td>%s</td>
                    <td><code>%s</code></td>
                    <td class="comment">%s</td>
                    <td><code>%s</code></td>
                </tr>
`, rowClass, s.Line, s.Pass, html.EscapeString(s.Object()),
				html.EscapeString(s.Comment), html.EscapeString(strings.TrimSpace(s.Rewritten)))
			if err != nil {
				return err
			}
		}

		if _, err := io.WriteString(writer, "            </table>\n"); err != nil {
			return err
		}
	}

	_, err = io.WriteString(writer, "        </section>\n\n")
	return err
}

// writeFooter writes the HTML document footer
func (r *HTMLReporter) writeFooter(writer io.Writer) error {
	_, err := io.WriteString(writer, `        <footer>
            Generated by <strong>erdfix</strong> - ERD Concepts MySQL comment fixer
        </footer>
    </div>
</body>
</html>
`)
	return err
}

// FormatString returns run results as an HTML string
func (r *HTMLReporter) FormatString(res *results.Results) (string, error) {
	var buf strings.Builder
	if err := r.Format(res, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Name returns the name of this reporter
func (r *HTMLReporter) Name() string {
	return "html"
}
