package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandRun はボットを起動することを示す。マイグレーションと初期データ投入も行う。
	CommandRun Command = "run"
	// CommandMigrate はデータベースマイグレーションのみを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandSeed はマイグレーションと初期データ投入のみを実行することを示す。
	CommandSeed Command = "seed"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandRunを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandRun
	}

	switch args[0] {
	case "run":
		return CommandRun
	case "migrate":
		return CommandMigrate
	case "seed":
		return CommandSeed
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandRun
	}
}
