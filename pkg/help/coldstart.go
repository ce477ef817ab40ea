package help

const ColdstartYAML = `# themescrape Quick Start

sample_modes:
  minimal: "Page metadata only, no observations (fastest)"
  inline: "Inline styles and <style> blocks"
  full: "Inline plus linked stylesheets (default)"

output_modes:
  tier2: "Session-based, best for 10+ URLs (default)"
  summary: "Per-source summaries to stdout"
  json: "Full manifest JSON to stdout"

commands:
  basic_scrape: |
    themescrape scrape --urls "https://stripe.com,https://linear.app"

  scrape_and_resolve: |
    themescrape scrape --urls "https://stripe.com" --resolve

  resolve_session: |
    themescrape resolve --session 3

  resolve_latest: |
    themescrape resolve

  export_tokens: |
    themescrape export --run 0b964747 --format css
    themescrape export --format scss --out tokens.scss

  style_guide: |
    themescrape docs --run 0b964747

  terminal_swatches: |
    themescrape preview --run 0b964747

  list_runs: |
    themescrape runs list

  compare_runs: |
    themescrape runs diff 0b964747 7c21aa02

  list_sessions: |
    themescrape db sessions

  session_details: |
    themescrape db session 3

  query_sessions: |
    themescrape db query --today
    themescrape db query --failed
    themescrape db query --url=stripe.com

  multi_stage: |
    # Step 1: Scrape a set of reference sites
    themescrape scrape --urls "url1,url2,url3"

    # Step 2: Check what the samplers found
    themescrape db session 3

    # Step 3: Resolve observations into tokens
    themescrape resolve --session 3

    # Step 4: Eyeball the palette, then export
    themescrape preview
    themescrape export --format css

key_files:
  - "themescrape-results/FIELDS.yaml (field reference)"
  - "themescrape-results/index.yaml (all sessions)"
  - "themescrape-results/sessions/2026-01-15-{id}/summary.yaml (per-source outcomes)"
  - "themescrape-results/sources/{slug}-{hash}/observations.yaml (cached samples)"
  - "themescrape-results/runs/{run-id}/tokens.css (compiled tokens)"

session_system:
  - "Sessions tracked in SQLite database"
  - "Auto-incrementing session IDs (1, 2, 3...)"
  - "Session directories: sessions/2026-01-15-1 (date + ID)"
  - "Same URLs + same features = instant cache hit from DB"
  - "Cached observations are reused unless --force-fetch"

runs_api:
  list: "themescrape runs list (recent runs, newest first)"
  show: "themescrape runs show --run <id> [--filter color-]"
  diff: "themescrape runs diff <base> <other> (token-by-token)"
  export: "themescrape runs export --run <id> --format css|scss|json"
  trend: "reserved"
  notes:
    - "Run IDs accept unique prefixes (first UUID segment is enough)"
    - "Omitting --run means the latest run"

db_commands:
  sessions: "List all sessions with stats"
  session_id: "Show detailed info for session"
  sources: "List sources with theme/language metadata"
  query: "Filter sessions (--today, --failed, --url=pattern)"
  show: "Print cached observations YAML for a source (by ID or URL)"
  init: "Initialize database schema"

token_vocabulary:
  roles: "color-{primary,secondary,tertiary,success,warning,danger,info}"
  states: "-hover -active -disabled -light -light-hover -light-active"
  neutrals: "color-bg-0..4, color-fill-0..2, color-text-0..3"
  dimensions: "spacing-{xs,sm,base,md,lg,xl}, radius-base, font-size-base"
  typography: "font-family-base"

resolution_invariants:
  - "Same observations + same config = identical tokens"
  - "Every token carries a 0-1 confidence score"
  - "Unresolved roles fall back to defaults and emit a warning"
  - "Neutral ramp is synthesized when observed neutrals are too sparse"

query_examples:
  list_all_sessions: 'themescrape db sessions'
  show_session_3: 'themescrape db session 3'
  query_today: 'themescrape db query --today'
  query_failed: 'themescrape db query --failed'
  failed_sources: 'yq ".sources[] | select(.status == \"failed\")" themescrape-results/sessions/2026-01-15-3/summary.yaml'
  dark_sources: 'yq ".sources[] | select(.theme == \"dark\")" themescrape-results/sessions/2026-01-15-3/summary.yaml'
  low_confidence: 'themescrape runs show --filter color- | yq ".data.tokens[] | select(.confidence < 0.5)"'

error_behavior:
  - "Malformed URLs: fail fast before fetching"
  - "Runtime errors: logged to failed.yaml, scrape continues"
  - "Exit codes: 0=success, 1=partial failure, 2=complete failure"
`
