package conversation

const (
	replyRegisterGroupOnly   = "Meu nobre, para se juntar à minha causa, peço que me chame em particular. A discrição é uma virtude dos grandes líderes."
	replyAlreadyRegistered   = "Guerreiro, sua lealdade já foi registrada. Você já faz parte de minha nobre aliança!"
	replyRegisterPrompt      = "Você, nobre guerreiro, deseja jurar lealdade a mim, Yuan Shao, e se inscrever em minha gloriosa campanha? Responda com 'sim' para selar seu destino."
	replyRegistered          = "Sua lealdade foi registrada! Você agora é um de meus nobres seguidores. Juntos, alcançaremos a glória!"
	replyRegisterFailed      = "Houve um erro em meus registros. Tente novamente mais tarde, nobre guerreiro."
	replyRegisterDeclined    = "Sua hesitação é compreensível, mas a glória não espera por ninguém. Quando estiver pronto para se juntar a mim, estarei aqui."
	replySubmitGroupOnly     = "Meu nobre, para me apresentar seus feitos, peço que o faça em particular. A glória de seus atos não deve ser ofuscada."
	replyTeamPrompt          = "Nobre guerreiro, antes de me apresentar seus feitos, diga-me a qual das grandes casas você jurou lealdade? (Shu, Wei ou Wu)"
	replyTeamInvalid         = "Guerreiro, essa casa não figura entre as grandes. Escolha entre Shu, Wei ou Wu para que eu possa registrar seus feitos corretamente."
	replyItemsPrompt         = "Excelente. Agora, apresente-me as provas de seus feitos. Envie-me suas imagens e textos. Quando terminar, use o comando " + FinalizeKeyword + " para que eu possa avaliar sua bravura."
	replyTextRecorded        = "Registrado. Envie mais provas ou use " + FinalizeKeyword + " para finalizar."
	replyImageRecorded       = "Sua imagem foi recebida. Envie mais ou use " + FinalizeKeyword + "."
	replyImageFailed         = "Houve uma falha ao receber sua imagem. Por favor, tente novamente."
	replySubmissionSaved     = "Seus feitos foram registrados e enviados para avaliação. Sua bravura será reconhecida, nobre guerreiro!"
	replySubmissionFailed    = "Houve uma falha em meus arquivos. Peço que tente novamente mais tarde."
	adminSubmissionHeader    = "Nova entrega de %s (@%s) para o time %s:\n\n"
	adminSubmissionTextTitle = "Textos:\n"
)
