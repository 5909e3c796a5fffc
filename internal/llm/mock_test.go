package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientCannedResponses(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{"schedule intent", "Quero agendar um corte amanhã", "fazer um agendamento"},
		{"availability intent", "Qual a disponibilidade de sexta?", "verificar a disponibilidade"},
		{"availability via time word", "tem horário livre?", "verificar a disponibilidade"},
		{"cancel intent", "Preciso cancelar meu horario de sábado às 10h", "cancelar o agendamento"},
		{"list intent", "pode listar meus agendamentos?", "listar os agendamentos"},
		{"default echo", "bom dia!", "Recebi sua mensagem"},
	}

	client := NewMockClient("", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Generate(context.Background(), []Message{
				{Role: RoleSystem, Content: "Você é um assistente de agendamentos."},
				{Role: RoleUser, Content: tt.last},
			}, Options{Temperature: 0.3})
			require.NoError(t, err)
			assert.Contains(t, resp.Content, tt.want)
			assert.Equal(t, ProviderMock, resp.Provider)
			assert.Equal(t, 75, resp.Usage.TotalTokens)
		})
	}
}

func TestMockClientKeywordOrderIsFixed(t *testing.T) {
	// "cancelar meu horário" mentions both cancel and availability words;
	// availability keywords are checked first in the canned table.
	client := NewMockClient("", "")
	resp, err := client.Generate(context.Background(), []Message{
		{Role: RoleUser, Content: "cancelar meu horário"},
	}, Options{})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "verificar a disponibilidade")
}

func TestMockClientAlwaysAvailable(t *testing.T) {
	assert.True(t, NewMockClient("", "").Available())
}

func TestMockClientDefaultEchoTruncates(t *testing.T) {
	client := NewMockClient("", "")
	long := strings.Repeat("olá ", 60)
	resp, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: long}}, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resp.Content, "..."))
	assert.Less(t, len([]rune(resp.Content)), len([]rune(long)))
}
