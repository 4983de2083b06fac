// Package services implements the core business logic for askdocs.
//
// Services implement the driving ports and depend only on the driven
// ports, never on concrete adapters:
//
//   - Retriever: embeds a question and queries the vector index
//   - sufficiency strategies: the pluggable EVALUATE policy
//   - Agent: the bounded state machine answering one question
//   - Composer: evidence → ordered citations
//   - AskService: agent orchestration, history, timing
//   - IndexService: ingestion, rebuild, atomic index swap, watch mode
//   - SettingsService: configuration management
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, ports/driving, chunker, logger
//   - Cannot Import: Any adapter package
package services
