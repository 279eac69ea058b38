package bot

const (
	replyWelcome            = "Saudações, nobre guerreiro! Eu, Yuan Shao, líder da aliança contra a tirania, dou-lhe as boas-vindas. O que o traz à minha presença?"
	replyAdminOnly          = "Este comando só pode ser utilizado no grupo de administradores."
	replyTeamOrAdminOnly    = "Este comando só pode ser utilizado no grupo de administradores ou no grupo do seu time."
	replyNoRegistrants      = "Minha nobre aliança ainda não possui membros. Seja o primeiro a se juntar à minha causa gloriosa usando /inscricao !"
	replyRegistrantsHeader  = "Estes são os nobres guerreiros que juraram lealdade a mim:\n\n"
	replyRegistrantLine     = "- Inscrição Nº %d: %s (@%s)\n"
	replyRegistrantsFailed  = "Falha ao ler a lista de inscritos."
	replyNoDecree           = "Não há decretos no momento. Aguardem minhas ordens, a glória nos espera!"
	replyDecreeFailed       = "Falha ao ler dados das missões."
	replyLedgerReadFailed   = "Falha ao ler o banco de dados do time %s: %v"
	replyLedgerSaveFailed   = "Falha ao salvar DB do time %s"
	replySoldiersUpdated    = "Soldados do time %s atualizados. Total: %d"
	replySoldiersTeamNotice = "Atenção, nobres guerreiros de %s! Seus soldados foram atualizados. Contamos agora com %d bravos combatentes em nossas fileiras!"
	replySoldiersOverflow   = "Valor inválido: os soldados do time %s sairiam do limite permitido. Nada foi alterado."
	replyNaipeUpdated       = "Missão %s do naipe %d para o time %s atualizada."
	replyNaipeTeamNotice    = "Atenção, guerreiros de %s! A missão do naipe %d (%s) foi atualizada em seus registros. Que a glória os acompanhe!"
	replyNaipeInvalid       = "Naipe inválido. Deve ser entre 1 e 22."
	replyAdminInvalid       = "Comando inválido: %s"
	replyAdminUnknown       = "Comando de admin não reconhecido ou formato inválido."
)
